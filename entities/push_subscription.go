package entities

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PushSubscription is keyed on the physical push endpoint so that
// re-subscribing the same device overwrites the row.
type PushSubscription struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Endpoint     string         `gorm:"type:text;uniqueIndex;not null" json:"endpoint"`
	Subscription datatypes.JSON `gorm:"type:jsonb;not null" json:"subscription"`
	BrowserInfo  string         `json:"browser_info"`

	Timestamp
}
