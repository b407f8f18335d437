package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/scienceol/tracerx/pkg/common/uuid"
)

type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// BeforeCreate fills the opaque identifier and creation time. Identifiers
// are always minted server side.
func (b *BaseModel) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewV4().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	return nil
}
