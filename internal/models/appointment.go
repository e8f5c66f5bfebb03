package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index:idx_appt_staff_start,priority:1;not null" json:"tenant_id"`

	ServiceID uuid.UUID `gorm:"type:uuid" json:"service_id"`
	StaffID   uuid.UUID `gorm:"type:uuid;index:idx_appt_staff_start,priority:2;not null" json:"staff_id"`

	ClientID     *uuid.UUID `gorm:"type:uuid" json:"client_id"`
	ClientType   string     `gorm:"size:20;default:'registered'" json:"client_type"` // registered | guest | anonymous
	GuestContact string     `gorm:"type:text" json:"guest_contact,omitempty"`
	ClientName   string     `gorm:"size:120" json:"client_name"`

	StartUtc time.Time `gorm:"index:idx_appt_staff_start,priority:3;not null" json:"start_utc"`
	EndUtc   time.Time `gorm:"not null" json:"end_utc"`

	Status string `gorm:"size:20;default:'confirmed'" json:"status"`
	Kind   string `gorm:"size:10;default:'appt'" json:"kind"` // appt | block | timeoff

	Notes           string     `gorm:"size:500" json:"notes"`
	CancelReason    string     `gorm:"size:255" json:"cancel_reason,omitempty"`
	CreatedByUserID *uuid.UUID `gorm:"type:uuid" json:"created_by_user_id"`

	CreatedAt  time.Time `json:"created_at"`
	UpdatedUtc time.Time `json:"updated_utc"`
}

// AppointmentHold is a time-boxed soft claim on a slot. It is inert once
// ExpiresUtc has passed, whether or not the row was removed.
type AppointmentHold struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index:idx_hold_staff_start,priority:1;uniqueIndex:idx_hold_token,priority:1;not null" json:"tenant_id"`

	ServiceID uuid.UUID `gorm:"type:uuid" json:"service_id"`
	StaffID   uuid.UUID `gorm:"type:uuid;index:idx_hold_staff_start,priority:2;not null" json:"staff_id"`

	StartUtc time.Time `gorm:"index:idx_hold_staff_start,priority:3;not null" json:"start_utc"`
	EndUtc   time.Time `gorm:"not null" json:"end_utc"`

	Token      string    `gorm:"size:64;uniqueIndex:idx_hold_token,priority:2;not null" json:"token"`
	ExpiresUtc time.Time `gorm:"index;not null" json:"expires_utc"`

	CreatedAt time.Time `json:"created_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (h *AppointmentHold) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
