package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/reelbite/reelbite/middlewares"
	"github.com/reelbite/reelbite/models"
	"github.com/reelbite/reelbite/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// setAuthCookie mirrors the SPA session: the token rides an http-only cookie
// alongside the response body.
func setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("token", token, 7*24*3600, "/", "", true, true)
}

func clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("token", "", -1, "/", "", true, true)
}

// Register a new end user
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		FullName string `json:"fullname" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var existing models.User
	if err := uc.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("user already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, utils.RoleUser)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	setAuthCookie(c, token)

	utils.InfoLogger.Printf("New user registered: %s", user.Email)

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user":  user,
		"token": token,
	})
}

// Login user -> JWT in cookie and body
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid email or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid email or password"))
		return
	}

	token, err := utils.GenerateToken(user.ID, utils.RoleUser)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	setAuthCookie(c, token)

	utils.RespondJSON(c, http.StatusOK, "User logged in", gin.H{
		"user":  user,
		"token": token,
	})
}

// Logout revokes the current token and clears the cookie.
func (uc *UserController) Logout(c *gin.Context) {
	if token := c.GetString(middlewares.CtxToken); token != "" {
		utils.BlacklistToken(token)
	}
	clearAuthCookie(c)
	utils.RespondJSON(c, http.StatusOK, "User logged out", nil)
}

// GetCurrentActor resolves whoever the token points at, user or partner.
func (uc *UserController) GetCurrentActor(c *gin.Context) {
	actorID := c.GetUint(middlewares.CtxActorID)
	role := c.GetString(middlewares.CtxRole)

	switch role {
	case utils.RolePartner:
		var partner models.FoodPartner
		if err := uc.DB.First(&partner, actorID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("food partner not found"))
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Current food partner", gin.H{
			"partner": partner,
			"type":    utils.RolePartner,
		})
	default:
		var user models.User
		if err := uc.DB.First(&user, actorID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Current user", gin.H{
			"user": user,
			"type": utils.RoleUser,
		})
	}
}
