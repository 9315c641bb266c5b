package models

import "time"

type FoodPartner struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(255); not null" json:"name"`
	Email          string    `gorm:"type:varchar(255); unique;not null" json:"email"`
	Password       string    `gorm:"type:varchar(255); not null" json:"-"`
	Phone          string    `gorm:"type:varchar(50)" json:"phone"`
	Address        string    `gorm:"type:text" json:"address"`
	ContactName    string    `gorm:"type:varchar(255)" json:"contact_name"`
	FollowersCount int       `gorm:"not null;default:0" json:"followers_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
