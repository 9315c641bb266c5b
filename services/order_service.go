package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/reelbite/reelbite/models"
)

// OrderService owns order creation, the partner order view and the status
// workflow. Stock control never reads-then-writes: the conditional decrement
// inside the creation transaction is the only stock check that counts.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// OrderLineInput is one cart entry as submitted by the client.
type OrderLineInput struct {
	FoodID   uint `json:"food"`
	Quantity int  `json:"quantity"`
}

// Create validates the cart, snapshots prices, decrements stock and persists
// the order, all inside one transaction. Any failing line rolls everything
// back, so a refused order leaves the catalog untouched.
func (s *OrderService) Create(userID uint, lines []OrderLineInput, deliveryAddress string) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrItemsRequired
	}
	address := strings.TrimSpace(deliveryAddress)
	if address == "" {
		return nil, ErrAddressRequired
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	var created models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var total float64
		items := make([]models.OrderItem, 0, len(lines))

		for _, line := range lines {
			var food models.Food
			if err := tx.First(&food, line.FoodID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &FoodNotFoundError{FoodID: line.FoodID}
				}
				return err
			}

			// The decrement doubles as the stock check: it only succeeds
			// while enough remains, so concurrent orders cannot oversell.
			res := tx.Model(&models.Food{}).
				Where("id = ? AND available_quantity >= ?", food.ID, line.Quantity).
				UpdateColumn("available_quantity", gorm.Expr("available_quantity - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &InsufficientStockError{Name: food.Name, Available: food.AvailableQuantity}
			}

			total += food.Price * float64(line.Quantity)
			items = append(items, models.OrderItem{
				FoodID:   food.ID,
				Quantity: line.Quantity,
				Price:    food.Price, // snapshot, later catalog edits must not move old totals
			})
		}

		created = models.Order{
			UserID:          userID,
			Status:          models.OrderStatusPending,
			TotalAmount:     total,
			DeliveryAddress: address,
			Items:           items,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}

	// Reload with foods resolved so callers (and the live hub) see owners.
	var order models.Order
	if err := s.DB.Preload("Items.Food").First(&order, created.ID).Error; err != nil {
		return &created, nil
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first, foods resolved.
func (s *OrderService) ListByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Preload("Items.Food").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// GetForUser fetches one order with the owner check folded into the query.
// A foreign order is indistinguishable from a missing one.
func (s *OrderService) GetForUser(orderID, userID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Items.Food").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListByPartner returns orders containing at least one of the partner's
// items, newest first, via an indexed join rather than a full scan.
func (s *OrderService) ListByPartner(partnerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Preload("Items.Food").Preload("User").
		Distinct("orders.*").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN foods ON foods.id = order_items.food_id").
		Where("foods.food_partner_id = ?", partnerID).
		Order("orders.created_at DESC").
		Find(&orders).Error
	return orders, err
}

// UpdateStatus advances an order exactly one step along
// pending -> preparing -> on_the_way -> delivered, on behalf of a partner
// owning at least one line. The guarded UPDATE keeps concurrent advances
// from skipping states.
func (s *OrderService) UpdateStatus(orderID, partnerID uint, next string) (*models.Order, error) {
	if !models.ValidOrderStatus(next) {
		return nil, ErrUnknownStatus
	}

	var order models.Order
	if err := s.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	var ownedLines int64
	err := s.DB.Model(&models.OrderItem{}).
		Joins("JOIN foods ON foods.id = order_items.food_id").
		Where("order_items.order_id = ? AND foods.food_partner_id = ?", orderID, partnerID).
		Count(&ownedLines).Error
	if err != nil {
		return nil, err
	}
	if ownedLines == 0 {
		return nil, ErrNotOrderPartner
	}

	if !models.CanTransition(order.Status, next) {
		return nil, ErrInvalidTransition
	}

	res := s.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", next)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Someone advanced it first; the requested step no longer applies.
		return nil, ErrInvalidTransition
	}

	var updated models.Order
	if err := s.DB.Preload("Items.Food").First(&updated, order.ID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// PartnerIDs collects the distinct owners of an order's lines, for targeted
// live notifications.
func (s *OrderService) PartnerIDs(orderID uint) ([]uint, error) {
	var ids []uint
	err := s.DB.Model(&models.OrderItem{}).
		Distinct().
		Joins("JOIN foods ON foods.id = order_items.food_id").
		Where("order_items.order_id = ?", orderID).
		Pluck("foods.food_partner_id", &ids).Error
	return ids, err
}
