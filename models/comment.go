package models

import "time"

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FoodID    uint      `gorm:"not null;index" json:"food_id"`
	Food      Food      `gorm:"foreignKey:FoodID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
