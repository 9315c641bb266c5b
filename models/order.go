package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusOnTheWay  = "on_the_way"
	OrderStatusDelivered = "delivered"
)

// nextOrderStatus maps each status to the only one it may advance to.
// "delivered" is terminal.
var nextOrderStatus = map[string]string{
	OrderStatusPending:   OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusOnTheWay,
	OrderStatusOnTheWay:  OrderStatusDelivered,
}

// CanTransition reports whether an order may move from -> to in one step.
func CanTransition(from, to string) bool {
	next, ok := nextOrderStatus[from]
	return ok && next == to
}

// ValidOrderStatus reports whether s is one of the known status values.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusOnTheWay, OrderStatusDelivered:
		return true
	}
	return false
}

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"not null;index" json:"user_id"`
	User            *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status          string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount     float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	DeliveryAddress string      `gorm:"type:text;not null" json:"delivery_address"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}
