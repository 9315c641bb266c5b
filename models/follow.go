package models

import "time"

type Follow struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"not null;uniqueIndex:idx_follows_user_partner" json:"user_id"`
	PartnerID uint        `gorm:"not null;uniqueIndex:idx_follows_user_partner" json:"partner_id"`
	Partner   FoodPartner `gorm:"foreignKey:PartnerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time   `json:"created_at"`
}
