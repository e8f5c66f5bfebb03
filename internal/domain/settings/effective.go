// Package settings resolves the scheduling configuration of a staff member
// by layering the per-staff override document over the tenant settings and
// the system defaults.
package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/domain/interval"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

const (
	DefaultOpenTime                = "07:00"
	DefaultCloseTime               = "20:00"
	DefaultSlotGranularityMinutes  = 5
	DefaultAppointmentMinutes      = 60
	DefaultCancellationWindowHours = 24
)

// DefaultBusinessDays is Monday through Friday.
func DefaultBusinessDays() []int {
	return []int{1, 2, 3, 4, 5}
}

type Effective struct {
	Timezone                   string `json:"timezone"`
	OpenTime                   string `json:"open_time"`
	CloseTime                  string `json:"close_time"`
	BusinessDays               []int  `json:"business_days"`
	SlotGranularityMinutes     int    `json:"slot_granularity_minutes"`
	DefaultAppointmentMinutes  int    `json:"default_appointment_minutes"`
	CancellationWindowHours    int    `json:"cancellation_window_hours"`
	AllowAnonymousAppointments bool   `json:"allow_anonymous_appointments"`
}

// ResolveFor resolves the settings of a staff member. A nil staff, or one
// without a usable override document, yields the tenant-only resolution.
func ResolveFor(tenant models.TenantSettings, staff *models.Staff) Effective {
	var o Override
	if staff != nil {
		o = ParseOverride(staff.SettingsOverride)
	}
	return Resolve(tenant, o)
}

// Resolve picks, field by field, the override value, then the tenant value,
// then the system default. A business-days override with at least one day
// replaces the tenant list.
func Resolve(tenant models.TenantSettings, o Override) Effective {
	e := Effective{
		Timezone:                   timezone.DefaultTimezone,
		OpenTime:                   DefaultOpenTime,
		CloseTime:                  DefaultCloseTime,
		BusinessDays:               DefaultBusinessDays(),
		SlotGranularityMinutes:     DefaultSlotGranularityMinutes,
		DefaultAppointmentMinutes:  DefaultAppointmentMinutes,
		CancellationWindowHours:    DefaultCancellationWindowHours,
		AllowAnonymousAppointments: tenant.AllowAnonymousAppointments,
	}

	// tenant
	if timezone.IsValid(tenant.Timezone) {
		e.Timezone = tenant.Timezone
	}
	if hm, ok := canonicalClock(tenant.OpenTime); ok {
		e.OpenTime = hm
	}
	if hm, ok := canonicalClock(tenant.CloseTime); ok {
		e.CloseTime = hm
	}
	if days := ParseDayList(tenant.BusinessDays); len(days) > 0 {
		e.BusinessDays = days
	}
	if tenant.SlotGranularityMinutes > 0 {
		e.SlotGranularityMinutes = tenant.SlotGranularityMinutes
	}
	if tenant.DefaultAppointmentMinutes > 0 {
		e.DefaultAppointmentMinutes = tenant.DefaultAppointmentMinutes
	}
	if tenant.CancellationWindowHours >= 0 {
		e.CancellationWindowHours = tenant.CancellationWindowHours
	}

	// staff
	if o.Timezone != nil && timezone.IsValid(*o.Timezone) {
		e.Timezone = *o.Timezone
	}
	if o.OpenTime != nil {
		if hm, ok := canonicalClock(*o.OpenTime); ok {
			e.OpenTime = hm
		}
	}
	if o.CloseTime != nil {
		if hm, ok := canonicalClock(*o.CloseTime); ok {
			e.CloseTime = hm
		}
	}
	if days := canonicalDays(o.BusinessDays); len(days) > 0 {
		e.BusinessDays = days
	}
	if o.SlotGranularityMinutes != nil && *o.SlotGranularityMinutes > 0 {
		e.SlotGranularityMinutes = *o.SlotGranularityMinutes
	}
	if o.DefaultAppointmentMinutes != nil && *o.DefaultAppointmentMinutes > 0 {
		e.DefaultAppointmentMinutes = *o.DefaultAppointmentMinutes
	}
	if o.CancellationWindowHours != nil && *o.CancellationWindowHours >= 0 {
		e.CancellationWindowHours = *o.CancellationWindowHours
	}
	if o.AllowAnonymousAppointments != nil {
		e.AllowAnonymousAppointments = *o.AllowAnonymousAppointments
	}

	return e
}

func (e Effective) Location() *time.Location {
	return timezone.Location(e.Timezone)
}

func (e Effective) IsBusinessDay(wd time.Weekday) bool {
	for _, d := range e.BusinessDays {
		if d == int(wd) {
			return true
		}
	}
	return false
}

func (e Effective) Granularity() time.Duration {
	return time.Duration(e.SlotGranularityMinutes) * time.Minute
}

// OpenWindow returns the open/close window of the given calendar day in the
// effective timezone. ok is false when close is not after open.
func (e Effective) OpenWindow(day time.Time) (interval.Range, bool) {
	return ClockWindow(day, e.OpenTime, e.CloseTime, e.Location())
}

// ClockWindow anchors two HH:mm values on the calendar day of `day` in loc
// and returns the range in UTC.
func ClockWindow(day time.Time, start, end string, loc *time.Location) (interval.Range, bool) {
	sm, ok := ParseClock(start)
	if !ok {
		return interval.Range{}, false
	}
	em, ok := ParseClock(end)
	if !ok {
		return interval.Range{}, false
	}

	d := day.In(loc)
	r := interval.Range{
		Start: wallClock(d, sm, loc),
		End:   wallClock(d, em, loc),
	}
	if !r.Valid() {
		return interval.Range{}, false
	}
	return r, true
}

// wallClock builds the local wall time, not elapsed time since midnight, so
// DST days keep their configured hours. 24:00 normalizes to next midnight.
func wallClock(d time.Time, mins int, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), mins/60, mins%60, 0, 0, loc).UTC()
}

// ParseClock parses "HH:mm" (also "H:mm" and "HH:mm:ss") into minutes after
// midnight. "24:00" is accepted as end of day.
func ParseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	vals := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, false
		}
		vals[i] = v
	}

	h, m := vals[0], vals[1]
	sec := 0
	if len(vals) == 3 {
		sec = vals[2]
	}
	if m > 59 || sec > 59 {
		return 0, false
	}
	if h > 24 || (h == 24 && (m > 0 || sec > 0)) {
		return 0, false
	}
	return h*60 + m, true
}

func canonicalClock(s string) (string, bool) {
	mins, ok := ParseClock(s)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60), true
}
