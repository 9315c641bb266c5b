package services

import (
	"errors"
	"fmt"
)

var (
	ErrItemsRequired     = errors.New("items required")
	ErrAddressRequired   = errors.New("delivery address required")
	ErrInvalidQuantity   = errors.New("item quantity must be a positive number")
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotOrderPartner   = errors.New("no items in this order belong to this partner")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("order status can only advance one step forward")
)

// FoodNotFoundError identifies which requested food id is missing.
type FoodNotFoundError struct {
	FoodID uint
}

func (e *FoodNotFoundError) Error() string {
	return fmt.Sprintf("food item %d not found", e.FoodID)
}

// InsufficientStockError carries the item name and the stock seen when the
// conditional decrement was refused.
type InsufficientStockError struct {
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %d", e.Name, e.Available)
}
