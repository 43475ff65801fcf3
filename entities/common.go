package entities

import "time"

// Timestamp carries no DeletedAt: ingredients are hard-deleted.
type Timestamp struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
