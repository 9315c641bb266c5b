package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/reelbite/reelbite/middlewares"
	"github.com/reelbite/reelbite/models"
	"github.com/reelbite/reelbite/utils"
)

type PartnerController struct {
	DB *gorm.DB
}

func NewPartnerController(db *gorm.DB) *PartnerController {
	return &PartnerController{DB: db}
}

// Register a new food partner
func (pc *PartnerController) Register(c *gin.Context) {
	type request struct {
		Name        string `json:"name" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=6"`
		Phone       string `json:"phone"`
		Address     string `json:"address"`
		ContactName string `json:"contact_name"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var existing models.FoodPartner
	if err := pc.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("food partner already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	partner := models.FoodPartner{
		Name:        req.Name,
		Email:       req.Email,
		Password:    string(hashed),
		Phone:       req.Phone,
		Address:     req.Address,
		ContactName: req.ContactName,
	}
	if err := pc.DB.Create(&partner).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	token, err := utils.GenerateToken(partner.ID, utils.RolePartner)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	setAuthCookie(c, token)

	utils.InfoLogger.Printf("New food partner registered: %s", partner.Email)

	utils.RespondJSON(c, http.StatusCreated, "Food partner registered", gin.H{
		"partner": partner,
		"token":   token,
	})
}

// Login food partner -> JWT in cookie and body
func (pc *PartnerController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var partner models.FoodPartner
	if err := pc.DB.Where("email = ?", input.Email).First(&partner).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid email or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(partner.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid email or password"))
		return
	}

	token, err := utils.GenerateToken(partner.ID, utils.RolePartner)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	setAuthCookie(c, token)

	utils.RespondJSON(c, http.StatusOK, "Food partner logged in", gin.H{
		"partner": partner,
		"token":   token,
	})
}

func (pc *PartnerController) Logout(c *gin.Context) {
	if token := c.GetString(middlewares.CtxToken); token != "" {
		utils.BlacklistToken(token)
	}
	clearAuthCookie(c)
	utils.RespondJSON(c, http.StatusOK, "Food partner logged out", nil)
}

// GetProfile -> partner plus their published food items
func (pc *PartnerController) GetProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("partner_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid partner id"))
		return
	}

	var partner models.FoodPartner
	if err := pc.DB.First(&partner, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("food partner not found"))
		return
	}

	var foods []models.Food
	if err := pc.DB.Where("food_partner_id = ?", partner.ID).
		Order("created_at DESC").Find(&foods).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Food partner profile", gin.H{
		"partner": partner,
		"foods":   foods,
	})
}

// FollowPartner toggles the follow edge and keeps the counter in step.
// The decrement is guarded so the counter can never dip below zero.
func (pc *PartnerController) FollowPartner(c *gin.Context) {
	userID := c.GetUint(middlewares.CtxActorID)

	id, err := strconv.ParseUint(c.Param("partner_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid partner id"))
		return
	}
	partnerID := uint(id)

	var partner models.FoodPartner
	if err := pc.DB.First(&partner, partnerID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("food partner not found"))
		return
	}

	var existing models.Follow
	err = pc.DB.Where("user_id = ? AND partner_id = ?", userID, partnerID).First(&existing).Error
	if err == nil {
		if err := pc.DB.Delete(&existing).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		pc.DB.Model(&models.FoodPartner{}).
			Where("id = ? AND followers_count > 0", partnerID).
			UpdateColumn("followers_count", gorm.Expr("followers_count - ?", 1))

		pc.DB.Select("followers_count").First(&partner, partnerID)
		utils.RespondJSON(c, http.StatusOK, "Unfollowed food partner", gin.H{
			"is_following":    false,
			"followers_count": partner.FollowersCount,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	follow := models.Follow{UserID: userID, PartnerID: partnerID}
	if err := pc.DB.Create(&follow).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	pc.DB.Model(&models.FoodPartner{}).
		Where("id = ?", partnerID).
		UpdateColumn("followers_count", gorm.Expr("followers_count + ?", 1))

	pc.DB.Select("followers_count").First(&partner, partnerID)
	utils.RespondJSON(c, http.StatusOK, "Followed food partner", gin.H{
		"is_following":    true,
		"followers_count": partner.FollowersCount,
	})
}
