package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a bookable occupied span for one staff member.
type Slot struct {
	StartUtc time.Time `json:"start_utc"`
	EndUtc   time.Time `json:"end_utc"`
	StaffID  uuid.UUID `json:"staff_id"`
}

type FreeRange struct {
	StartUtc time.Time `json:"start_utc"`
	EndUtc   time.Time `json:"end_utc"`
}

// DayAvailability is the raw free time of one staff member on one day,
// for clients that build their own slots.
type DayAvailability struct {
	Online                 bool        `json:"online"`
	FreeRanges             []FreeRange `json:"free_ranges"`
	StepMinutes            int         `json:"step_minutes"`
	DefaultDurationMinutes int         `json:"default_duration_minutes"`
}

type SlotQuery struct {
	TenantID  uuid.UUID
	ServiceID uuid.UUID
	FromUtc   time.Time
	ToUtc     time.Time
	StaffIDs  []uuid.UUID
}
