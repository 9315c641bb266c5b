package controllers

import (
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reelbite/reelbite/middlewares"
	"github.com/reelbite/reelbite/models"
	"github.com/reelbite/reelbite/services"
	"github.com/reelbite/reelbite/utils"
)

type FoodController struct {
	DB      *gorm.DB
	Storage *services.StorageService
}

func NewFoodController(db *gorm.DB, storage *services.StorageService) *FoodController {
	return &FoodController{DB: db, Storage: storage}
}

// enrichedFood decorates a catalog row with the viewer-specific flags the
// feed needs.
type enrichedFood struct {
	models.Food
	CommentCount int  `json:"comment_count"`
	IsLiked      bool `json:"is_liked"`
	IsSaved      bool `json:"is_saved"`
}

func (fc *FoodController) enrich(foods []models.Food, actorID uint) []enrichedFood {
	ids := make([]uint, len(foods))
	for i, f := range foods {
		ids[i] = f.ID
	}

	commentCounts := make(map[uint]int)
	if len(ids) > 0 {
		var rows []struct {
			FoodID uint
			Count  int
		}
		fc.DB.Model(&models.Comment{}).
			Select("food_id, COUNT(*) as count").
			Where("food_id IN ?", ids).
			Group("food_id").
			Scan(&rows)
		for _, r := range rows {
			commentCounts[r.FoodID] = r.Count
		}
	}

	liked := make(map[uint]bool)
	saved := make(map[uint]bool)
	if actorID != 0 && len(ids) > 0 {
		var likedIDs []uint
		fc.DB.Model(&models.Like{}).
			Where("user_id = ? AND food_id IN ?", actorID, ids).
			Pluck("food_id", &likedIDs)
		for _, id := range likedIDs {
			liked[id] = true
		}

		var savedIDs []uint
		fc.DB.Model(&models.Save{}).
			Where("user_id = ? AND food_id IN ?", actorID, ids).
			Pluck("food_id", &savedIDs)
		for _, id := range savedIDs {
			saved[id] = true
		}
	}

	enriched := make([]enrichedFood, len(foods))
	for i, f := range foods {
		enriched[i] = enrichedFood{
			Food:         f,
			CommentCount: commentCounts[f.ID],
			IsLiked:      liked[f.ID],
			IsSaved:      saved[f.ID],
		}
	}
	return enriched
}

// GetAllFoods -> the video feed. Order is shuffled per request; ranking is a
// client concern.
func (fc *FoodController) GetAllFoods(c *gin.Context) {
	actorID := c.GetUint(middlewares.CtxActorID)

	var foods []models.Food
	if err := fc.DB.Preload("FoodPartner").Find(&foods).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rand.Shuffle(len(foods), func(i, j int) {
		foods[i], foods[j] = foods[j], foods[i]
	})

	utils.RespondJSON(c, http.StatusOK, "Food items retrieved", gin.H{
		"food_items": fc.enrich(foods, actorID),
	})
}

// GetFood -> detail of a single catalog item
func (fc *FoodController) GetFood(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("food_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid food id"))
		return
	}

	var food models.Food
	if err := fc.DB.Preload("FoodPartner").First(&food, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("food item not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Food item detail", food)
}

// CreateFood -> partner publishes a new item with its video
func (fc *FoodController) CreateFood(c *gin.Context) {
	partnerID := c.GetUint(middlewares.CtxActorID)

	// Cap the upload size at 50MB
	c.Request.ParseMultipartForm(50 << 20)

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	price := 0.0
	if v := c.PostForm("price"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid price"))
			return
		}
		price = parsed
	}

	quantity := 0
	if v := c.PostForm("available_quantity"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid available_quantity"))
			return
		}
		quantity = parsed
	}

	file, err := c.FormFile("video")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("video is required"))
		return
	}
	videoURL, err := fc.Storage.SaveVideo(file)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	food := models.Food{
		Name:              name,
		Description:       c.PostForm("description"),
		Category:          strings.TrimSpace(c.PostForm("category")),
		Tags:              models.NormalizeTags(c.PostForm("tags")),
		Price:             price,
		AvailableQuantity: quantity,
		VideoURL:          videoURL,
		FoodPartnerID:     partnerID,
	}
	if err := fc.DB.Create(&food).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Partner %d published food %d (%s)", partnerID, food.ID, food.Name)
	utils.RespondJSON(c, http.StatusCreated, "Food created", food)
}

// UpdateFood -> owning partner edits an item; absent fields keep their value
func (fc *FoodController) UpdateFood(c *gin.Context) {
	partnerID := c.GetUint(middlewares.CtxActorID)

	id, err := strconv.ParseUint(c.Param("food_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid food id"))
		return
	}

	var food models.Food
	if err := fc.DB.First(&food, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("food item not found"))
		return
	}
	if food.FoodPartnerID != partnerID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	c.Request.ParseMultipartForm(50 << 20)

	if v := strings.TrimSpace(c.PostForm("name")); v != "" {
		food.Name = v
	}
	if v := c.PostForm("description"); v != "" {
		food.Description = v
	}
	if v := strings.TrimSpace(c.PostForm("category")); v != "" {
		food.Category = v
	}
	if v := c.PostForm("tags"); v != "" {
		food.Tags = models.NormalizeTags(v)
	}
	if v := c.PostForm("price"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid price"))
			return
		}
		food.Price = parsed
	}
	if v := c.PostForm("available_quantity"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid available_quantity"))
			return
		}
		food.AvailableQuantity = parsed
	}
	if file, err := c.FormFile("video"); err == nil {
		videoURL, err := fc.Storage.SaveVideo(file)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		food.VideoURL = videoURL
	}

	if err := fc.DB.Save(&food).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Food updated", food)
}

// DeleteFood -> owning partner removes an item and its social records
func (fc *FoodController) DeleteFood(c *gin.Context) {
	partnerID := c.GetUint(middlewares.CtxActorID)

	id, err := strconv.ParseUint(c.Param("food_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid food id"))
		return
	}

	var food models.Food
	if err := fc.DB.First(&food, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("food item not found"))
		return
	}
	if food.FoodPartnerID != partnerID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	err = fc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("food_id = ?", food.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("food_id = ?", food.ID).Delete(&models.Save{}).Error; err != nil {
			return err
		}
		if err := tx.Where("food_id = ?", food.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&food).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Food deleted", gin.H{"food_id": food.ID})
}

// ToggleLike likes on first call, unlikes on the second. The counter moves
// with an atomic increment, never a read-modify-write.
func (fc *FoodController) ToggleLike(c *gin.Context) {
	actorID := c.GetUint(middlewares.CtxActorID)

	var body struct {
		FoodID uint `json:"food_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var food models.Food
	if err := fc.DB.First(&food, body.FoodID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("food item not found"))
		return
	}

	var existing models.Like
	err := fc.DB.Where("food_id = ? AND user_id = ?", body.FoodID, actorID).First(&existing).Error
	if err == nil {
		if err := fc.DB.Delete(&existing).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		fc.DB.Model(&models.Food{}).
			Where("id = ? AND like_count > 0", body.FoodID).
			UpdateColumn("like_count", gorm.Expr("like_count - ?", 1))
		utils.RespondJSON(c, http.StatusOK, "Food item unliked", gin.H{"is_liked": false})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	like := models.Like{FoodID: body.FoodID, UserID: actorID}
	if err := fc.DB.Create(&like).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	fc.DB.Model(&models.Food{}).
		Where("id = ?", body.FoodID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1))
	utils.RespondJSON(c, http.StatusCreated, "Food item liked", gin.H{"is_liked": true})
}

// ToggleSave mirrors ToggleLike for the save collection.
func (fc *FoodController) ToggleSave(c *gin.Context) {
	actorID := c.GetUint(middlewares.CtxActorID)

	var body struct {
		FoodID uint `json:"food_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var food models.Food
	if err := fc.DB.First(&food, body.FoodID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("food item not found"))
		return
	}

	var existing models.Save
	err := fc.DB.Where("food_id = ? AND user_id = ?", body.FoodID, actorID).First(&existing).Error
	if err == nil {
		if err := fc.DB.Delete(&existing).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		fc.DB.Model(&models.Food{}).
			Where("id = ? AND save_count > 0", body.FoodID).
			UpdateColumn("save_count", gorm.Expr("save_count - ?", 1))
		utils.RespondJSON(c, http.StatusOK, "Food item unsaved", gin.H{"is_saved": false})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	save := models.Save{FoodID: body.FoodID, UserID: actorID}
	if err := fc.DB.Create(&save).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	fc.DB.Model(&models.Food{}).
		Where("id = ?", body.FoodID).
		UpdateColumn("save_count", gorm.Expr("save_count + ?", 1))
	utils.RespondJSON(c, http.StatusCreated, "Food item saved", gin.H{"is_saved": true})
}

// GetSavedFoods -> the actor's saved items, enriched like the feed
func (fc *FoodController) GetSavedFoods(c *gin.Context) {
	actorID := c.GetUint(middlewares.CtxActorID)

	var saves []models.Save
	if err := fc.DB.Preload("Food").Preload("Food.FoodPartner").
		Where("user_id = ?", actorID).
		Order("created_at DESC").
		Find(&saves).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	foods := make([]models.Food, 0, len(saves))
	for _, s := range saves {
		if s.Food.ID != 0 {
			foods = append(foods, s.Food)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Saved food items retrieved", gin.H{
		"food_items": fc.enrich(foods, actorID),
	})
}

// GetComments -> a food item's comments, oldest first
func (fc *FoodController) GetComments(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("food_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid food id"))
		return
	}

	var comments []models.Comment
	if err := fc.DB.Preload("User").
		Where("food_id = ?", uint(id)).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Comments retrieved", gin.H{"comments": comments})
}

// AddComment appends a comment and reports the new count. The route is
// user-only: Comment.UserID references the users table, so a partner token
// must never reach this handler.
func (fc *FoodController) AddComment(c *gin.Context) {
	actorID := c.GetUint(middlewares.CtxActorID)

	id, err := strconv.ParseUint(c.Param("food_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid food id"))
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	content := strings.TrimSpace(body.Content)
	if content == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("comment is required"))
		return
	}

	var food models.Food
	if err := fc.DB.First(&food, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("food item not found"))
		return
	}

	comment := models.Comment{
		FoodID:  food.ID,
		UserID:  actorID,
		Content: content,
	}
	if err := fc.DB.Create(&comment).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	fc.DB.Preload("User").First(&comment, comment.ID)

	var count int64
	fc.DB.Model(&models.Comment{}).Where("food_id = ?", food.ID).Count(&count)

	utils.RespondJSON(c, http.StatusCreated, "Comment added", gin.H{
		"comment": comment,
		"count":   count,
	})
}

// GetRelatedFoods ranks other items by shared tags first, then same
// category, ordered by like/save counters, capped at six.
func (fc *FoodController) GetRelatedFoods(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("food_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid food id"))
		return
	}

	var food models.Food
	if err := fc.DB.First(&food, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("food item not found"))
		return
	}

	const maxRelated = 6

	related := make([]models.Food, 0, maxRelated)
	seen := map[uint]bool{food.ID: true}

	tags := food.TagList()
	if len(tags) > 0 {
		tagSet := make(map[string]bool, len(tags))
		for _, t := range tags {
			tagSet[strings.ToLower(t)] = true
		}

		// LIKE is only a prefilter; exact tag membership is checked below.
		cond := fc.DB.Where("tags LIKE ?", "%"+tags[0]+"%")
		for _, t := range tags[1:] {
			cond = cond.Or("tags LIKE ?", "%"+t+"%")
		}

		var candidates []models.Food
		fc.DB.Where("id <> ?", food.ID).Where(cond).
			Order("like_count DESC, save_count DESC").
			Limit(32).
			Find(&candidates)

		for _, cand := range candidates {
			if len(related) == 8 {
				break
			}
			if seen[cand.ID] || !sharesTag(&cand, tagSet) {
				continue
			}
			seen[cand.ID] = true
			related = append(related, cand)
		}
	}

	if len(related) < maxRelated && food.Category != "" {
		var candidates []models.Food
		fc.DB.Where("id <> ? AND category = ?", food.ID, food.Category).
			Order("like_count DESC, save_count DESC").
			Limit(2 * maxRelated).
			Find(&candidates)

		for _, cand := range candidates {
			if len(related) == maxRelated {
				break
			}
			if seen[cand.ID] {
				continue
			}
			seen[cand.ID] = true
			related = append(related, cand)
		}
	}

	if len(related) > maxRelated {
		related = related[:maxRelated]
	}

	utils.RespondJSON(c, http.StatusOK, "Related food items", gin.H{
		"related_foods": related,
	})
}

func sharesTag(food *models.Food, tagSet map[string]bool) bool {
	for _, t := range food.TagList() {
		if tagSet[strings.ToLower(t)] {
			return true
		}
	}
	return false
}
