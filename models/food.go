package models

import (
	"strings"
	"time"
)

type Food struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	Name              string       `gorm:"type:varchar(255); not null" json:"name"`
	Description       string       `gorm:"type:text" json:"description"`
	Category          string       `gorm:"type:varchar(100);index" json:"category"`
	Tags              string       `gorm:"type:varchar(500)" json:"tags"`
	Price             float64      `gorm:"type:decimal(10,2);not null;default:0.00" json:"price"`
	AvailableQuantity int          `gorm:"not null;default:0" json:"available_quantity"`
	LikeCount         int          `gorm:"not null;default:0" json:"like_count"`
	SaveCount         int          `gorm:"not null;default:0" json:"save_count"`
	VideoURL          string       `gorm:"type:varchar(500);not null" json:"video_url"`
	FoodPartnerID     uint         `gorm:"not null;index" json:"food_partner_id"`
	FoodPartner       *FoodPartner `gorm:"foreignKey:FoodPartnerID" json:"food_partner,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// TagList splits the stored comma-joined tags into a slice.
func (f *Food) TagList() []string {
	if strings.TrimSpace(f.Tags) == "" {
		return nil
	}
	parts := strings.Split(f.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NormalizeTags trims, drops empties and duplicates, and joins with commas.
func NormalizeTags(raw string) string {
	seen := make(map[string]bool)
	var tags []string
	for _, p := range strings.Split(raw, ",") {
		t := strings.TrimSpace(p)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		tags = append(tags, t)
	}
	return strings.Join(tags, ",")
}
