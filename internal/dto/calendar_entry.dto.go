package dto

import (
	"time"

	"github.com/google/uuid"
)

// CalendarEntryDTO is one busy block on a staff calendar. Holds carry
// Kind "hold" and their expiry instead of a status.
type CalendarEntryDTO struct {
	ID         uuid.UUID  `json:"id"`
	Kind       string     `json:"kind"`
	Status     string     `json:"status,omitempty"`
	StartUtc   time.Time  `json:"start_utc"`
	EndUtc     time.Time  `json:"end_utc"`
	ServiceID  uuid.UUID  `json:"service_id"`
	ClientName string     `json:"client_name,omitempty"`
	ExpiresUtc *time.Time `json:"expires_utc,omitempty"`
}
