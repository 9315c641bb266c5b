package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reelbite/reelbite/live"
	"github.com/reelbite/reelbite/middlewares"
	"github.com/reelbite/reelbite/services"
	"github.com/reelbite/reelbite/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, Orders: services.NewOrderService(db)}
}

// respondOrderError translates service errors into the HTTP taxonomy:
// bad input and stock refusals are 400, missing things 404, ownership 403.
func respondOrderError(c *gin.Context, err error) {
	var notFound *services.FoodNotFoundError
	var noStock *services.InsufficientStockError

	switch {
	case errors.Is(err, services.ErrItemsRequired),
		errors.Is(err, services.ErrAddressRequired),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrUnknownStatus),
		errors.Is(err, services.ErrInvalidTransition):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &noStock):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &notFound), errors.Is(err, services.ErrOrderNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrNotOrderPartner):
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
	default:
		utils.ErrorLogger.Printf("order operation failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

// CreateOrder -> user checks out the cart
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID := c.GetUint(middlewares.CtxActorID)

	var body struct {
		Items           []services.OrderLineInput `json:"items"`
		DeliveryAddress string                    `json:"delivery_address"`
		// Older clients send camelCase.
		DeliveryAddressCamel string `json:"deliveryAddress"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	address := body.DeliveryAddress
	if address == "" {
		address = body.DeliveryAddressCamel
	}

	order, err := oc.Orders.Create(userID, body.Items, address)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d created by user %d (total %.2f)", order.ID, userID, order.TotalAmount)

	if partnerIDs, err := oc.Orders.PartnerIDs(order.ID); err == nil {
		live.BroadcastOrderCreated(order, partnerIDs)
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{"order": order})
}

// GetUserOrders -> the user's order history, newest first
func (oc *OrderController) GetUserOrders(c *gin.Context) {
	userID := c.GetUint(middlewares.CtxActorID)

	orders, err := oc.Orders.ListByUser(userID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", gin.H{"orders": orders})
}

// GetOrderDetails -> one order, only for its owner
func (oc *OrderController) GetOrderDetails(c *gin.Context) {
	userID := c.GetUint(middlewares.CtxActorID)

	id, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrOrderNotFound)
		return
	}

	order, err := oc.Orders.GetForUser(uint(id), userID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", gin.H{"order": order})
}

// GetPartnerOrders -> orders containing at least one of the partner's items
func (oc *OrderController) GetPartnerOrders(c *gin.Context) {
	partnerID := c.GetUint(middlewares.CtxActorID)

	orders, err := oc.Orders.ListByPartner(partnerID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", gin.H{"orders": orders})
}

// UpdateOrderStatus -> owning partner advances the order one step
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	partnerID := c.GetUint(middlewares.CtxActorID)

	id, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrOrderNotFound)
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateStatus(uint(id), partnerID, body.Status)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d moved to %s by partner %d", order.ID, order.Status, partnerID)

	if partnerIDs, err := oc.Orders.PartnerIDs(order.ID); err == nil {
		live.BroadcastOrderStatus(order, partnerIDs)
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", gin.H{"order": order})
}
