package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/reelbite/reelbite/middlewares"
	"github.com/reelbite/reelbite/models"
	"github.com/reelbite/reelbite/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.FoodPartner{},
		&models.Food{},
		&models.Like{},
		&models.Save{},
		&models.Comment{},
		&models.Follow{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	orderCtrl := NewOrderController(db)
	r.POST("/api/orders", middlewares.UserAuthMiddleware(), orderCtrl.CreateOrder)
	r.GET("/api/orders", middlewares.UserAuthMiddleware(), orderCtrl.GetUserOrders)
	r.GET("/api/orders/partner/orders", middlewares.PartnerAuthMiddleware(), orderCtrl.GetPartnerOrders)
	r.GET("/api/orders/:order_id", middlewares.UserAuthMiddleware(), orderCtrl.GetOrderDetails)
	r.PATCH("/api/orders/:order_id/status", middlewares.PartnerAuthMiddleware(), orderCtrl.UpdateOrderStatus)
	return r
}

func bearer(t *testing.T, actorID uint, role string) string {
	token, err := utils.GenerateToken(actorID, role)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, url, auth string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedTestFood(t *testing.T, db *gorm.DB, partnerID uint, name string, price float64, stock int) models.Food {
	food := models.Food{
		Name:              name,
		Price:             price,
		AvailableQuantity: stock,
		VideoURL:          "/uploads/" + name + ".mp4",
		FoodPartnerID:     partnerID,
	}
	if err := db.Create(&food).Error; err != nil {
		t.Fatalf("failed to seed food: %v", err)
	}
	return food
}

func TestCreateOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	food := seedTestFood(t, db, 1, "Nasi Goreng", 150.00, 3)

	w := doJSON(t, r, "POST", "/api/orders", bearer(t, 7, utils.RoleUser), gin.H{
		"items":            []gin.H{{"food": food.ID, "quantity": 2}},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Order models.Order `json:"order"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Status)
	assert.Equal(t, "Order created", resp.Message)
	assert.Equal(t, 300.00, resp.Data.Order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, resp.Data.Order.Status)

	var after models.Food
	db.First(&after, food.ID)
	assert.Equal(t, 1, after.AvailableQuantity)

	// Only 1 left, a second identical order is refused without mutation.
	w = doJSON(t, r, "POST", "/api/orders", bearer(t, 7, utils.RoleUser), gin.H{
		"items":            []gin.H{{"food": food.ID, "quantity": 2}},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	db.First(&after, food.ID)
	assert.Equal(t, 1, after.AvailableQuantity)
}

func TestCreateOrderEndpointRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	auth := bearer(t, 7, utils.RoleUser)

	w := doJSON(t, r, "POST", "/api/orders", auth, gin.H{
		"items":            []gin.H{},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "POST", "/api/orders", auth, gin.H{
		"items":            []gin.H{{"food": 1, "quantity": 1}},
		"delivery_address": "  ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "POST", "/api/orders", auth, gin.H{
		"items":            []gin.H{{"food": 4242, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, "POST", "/api/orders", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateOrderAcceptsCamelCaseAddress(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	food := seedTestFood(t, db, 1, "Gudeg", 20.00, 5)

	w := doJSON(t, r, "POST", "/api/orders", bearer(t, 7, utils.RoleUser), gin.H{
		"items":           []gin.H{{"food": food.ID, "quantity": 1}},
		"deliveryAddress": "12 Main St",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			Order models.Order `json:"order"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "12 Main St", resp.Data.Order.DeliveryAddress)
}

func TestOrderDetailsOwnership(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	food := seedTestFood(t, db, 1, "Sate Ayam", 25.00, 10)

	w := doJSON(t, r, "POST", "/api/orders", bearer(t, 7, utils.RoleUser), gin.H{
		"items":            []gin.H{{"food": food.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			Order models.Order `json:"order"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orderID := resp.Data.Order.ID

	url := fmt.Sprintf("/api/orders/%d", orderID)
	w = doJSON(t, r, "GET", url, bearer(t, 7, utils.RoleUser), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Another user sees nothing, not even that the order exists.
	w = doJSON(t, r, "GET", url, bearer(t, 8, utils.RoleUser), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPartnerOrderView(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	mine := seedTestFood(t, db, 1, "Soto", 30.00, 10)
	other := seedTestFood(t, db, 2, "Pecel", 15.00, 10)

	w := doJSON(t, r, "POST", "/api/orders", bearer(t, 7, utils.RoleUser), gin.H{
		"items":            []gin.H{{"food": mine.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, "POST", "/api/orders", bearer(t, 7, utils.RoleUser), gin.H{
		"items":            []gin.H{{"food": other.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "GET", "/api/orders/partner/orders", bearer(t, 1, utils.RolePartner), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Orders []models.Order `json:"orders"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Orders, 1)

	// A user token must not open partner endpoints.
	w = doJSON(t, r, "GET", "/api/orders/partner/orders", bearer(t, 1, utils.RoleUser), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)
	food := seedTestFood(t, db, 1, "Rendang", 80.00, 10)

	w := doJSON(t, r, "POST", "/api/orders", bearer(t, 7, utils.RoleUser), gin.H{
		"items":            []gin.H{{"food": food.ID, "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			Order models.Order `json:"order"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	url := fmt.Sprintf("/api/orders/%d/status", resp.Data.Order.ID)

	// Partner 2 owns none of the lines.
	w = doJSON(t, r, "PATCH", url, bearer(t, 2, utils.RolePartner), gin.H{"status": models.OrderStatusPreparing})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Jumping two steps forward is rejected.
	w = doJSON(t, r, "PATCH", url, bearer(t, 1, utils.RolePartner), gin.H{"status": models.OrderStatusOnTheWay})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "PATCH", url, bearer(t, 1, utils.RolePartner), gin.H{"status": models.OrderStatusPreparing})
	assert.Equal(t, http.StatusOK, w.Code)

	// The change is visible on a subsequent read.
	var stored models.Order
	db.First(&stored, resp.Data.Order.ID)
	assert.Equal(t, models.OrderStatusPreparing, stored.Status)
}
