package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Staff struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"tenant_id"`
	UserID      *uuid.UUID `gorm:"type:uuid" json:"user_id"`
	DisplayName string     `gorm:"size:120;not null" json:"display_name"`
	Role        string     `gorm:"size:20;default:'staff'" json:"role"`
	Active      bool       `gorm:"default:true" json:"active"`

	// Opaque JSON document with optional overrides of the tenant settings.
	SettingsOverride string `gorm:"type:text" json:"settings_override,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Staff) TableName() string {
	return "staff"
}
