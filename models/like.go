package models

import "time"

type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FoodID    uint      `gorm:"not null;uniqueIndex:idx_likes_food_user" json:"food_id"`
	Food      Food      `gorm:"foreignKey:FoodID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_food_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
