package entities

import (
	"time"

	"github.com/google/uuid"
)

type Ingredient struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	EntryDate  time.Time `gorm:"type:date;not null" json:"entry_date"`
	ExpiryDate time.Time `gorm:"type:date;not null;index" json:"expiry_date"`
	Category   string    `json:"category"`

	Timestamp
}

type Suggestion struct {
	Name     string `gorm:"primaryKey" json:"name"`
	Category string `json:"category,omitempty"`

	Timestamp
}
