package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffAvailability is one working window of a staff member for a weekday.
// Several rows per weekday are allowed (split shifts).
type StaffAvailability struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index:idx_staff_av_lookup,priority:1;not null" json:"tenant_id"`
	StaffID  uuid.UUID `gorm:"type:uuid;index:idx_staff_av_lookup,priority:2;not null" json:"staff_id"`

	Weekday   int    `gorm:"index:idx_staff_av_lookup,priority:3" json:"weekday"` // 0=domingo .. 6=sábado
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BusinessHours is the tenant-wide window for a weekday.
type BusinessHours struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index:idx_bh_lookup,priority:1;not null" json:"tenant_id"`

	Weekday   int    `gorm:"index:idx_bh_lookup,priority:2" json:"weekday"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *StaffAvailability) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (b *BusinessHours) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (StaffAvailability) TableName() string {
	return "staff_availability"
}

func (BusinessHours) TableName() string {
	return "business_hours"
}
