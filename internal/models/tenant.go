package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tenant struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name   string    `gorm:"size:100;not null" json:"name"`
	Slug   string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Active bool      `gorm:"default:true" json:"active"`

	Settings TenantSettings `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TenantSettings holds the tenant-wide scheduling defaults. Zero values
// mean "not configured" and are resolved against system defaults.
type TenantSettings struct {
	SlotGranularityMinutes     int    `gorm:"default:10" json:"slot_granularity_minutes"`
	AllowAnonymousAppointments bool   `gorm:"default:false" json:"allow_anonymous_appointments"`
	CancellationWindowHours    int    `gorm:"default:24" json:"cancellation_window_hours"`
	Timezone                   string `gorm:"size:64" json:"timezone"`
	BusinessDays               string `gorm:"size:32" json:"business_days"` // "1,2,3,4,5"
	OpenTime                   string `gorm:"size:5" json:"open_time"`      // HH:mm
	CloseTime                  string `gorm:"size:5" json:"close_time"`     // HH:mm
	DefaultAppointmentMinutes  int    `json:"default_appointment_minutes"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
