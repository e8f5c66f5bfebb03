package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`

	Name            string `gorm:"size:100;not null" json:"name"`
	DurationMin     int    `json:"duration_min"`
	BufferBeforeMin int    `gorm:"default:0" json:"buffer_before_min"`
	BufferAfterMin  int    `gorm:"default:0" json:"buffer_after_min"`
	Capacity        int    `gorm:"default:1" json:"capacity"`
	PriceCents      *int   `json:"price_cents"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
