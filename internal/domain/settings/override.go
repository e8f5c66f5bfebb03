package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// Override is the per-staff settings document. A nil field (or an empty
// BusinessDays) means "inherit the tenant value".
type Override struct {
	SlotGranularityMinutes     *int    `json:"slotGranularityMinutes,omitempty"`
	AllowAnonymousAppointments *bool   `json:"allowAnonymousAppointments,omitempty"`
	CancellationWindowHours    *int    `json:"cancellationWindowHours,omitempty"`
	Timezone                   *string `json:"timezone,omitempty"`
	BusinessDays               []int   `json:"businessDays,omitempty"`
	OpenTime                   *string `json:"openTime,omitempty"`
	CloseTime                  *string `json:"closeTime,omitempty"`
	DefaultAppointmentMinutes  *int    `json:"defaultAppointmentMinutes,omitempty"`
}

func (o Override) IsEmpty() bool {
	return o.SlotGranularityMinutes == nil &&
		o.AllowAnonymousAppointments == nil &&
		o.CancellationWindowHours == nil &&
		o.Timezone == nil &&
		len(o.BusinessDays) == 0 &&
		o.OpenTime == nil &&
		o.CloseTime == nil &&
		o.DefaultAppointmentMinutes == nil
}

// Encode renders the override for storage. An empty override encodes to ""
// so the column can be cleared.
func (o Override) Encode() string {
	if o.IsEmpty() {
		return ""
	}
	b, err := json.Marshal(o)
	if err != nil {
		return ""
	}
	return string(b)
}

// Merge applies a patch: set fields replace the stored ones, absent fields
// keep them. Business days in the patch replace the whole list.
func (o Override) Merge(patch Override) Override {
	if patch.SlotGranularityMinutes != nil {
		o.SlotGranularityMinutes = patch.SlotGranularityMinutes
	}
	if patch.AllowAnonymousAppointments != nil {
		o.AllowAnonymousAppointments = patch.AllowAnonymousAppointments
	}
	if patch.CancellationWindowHours != nil {
		o.CancellationWindowHours = patch.CancellationWindowHours
	}
	if patch.Timezone != nil {
		o.Timezone = patch.Timezone
	}
	if len(patch.BusinessDays) > 0 {
		o.BusinessDays = canonicalDays(patch.BusinessDays)
	}
	if patch.OpenTime != nil {
		o.OpenTime = patch.OpenTime
	}
	if patch.CloseTime != nil {
		o.CloseTime = patch.CloseTime
	}
	if patch.DefaultAppointmentMinutes != nil {
		o.DefaultAppointmentMinutes = patch.DefaultAppointmentMinutes
	}
	return o
}

// Validate rejects values the resolver would silently skip, so a write
// never stores an override that has no effect.
func (o Override) Validate() error {
	var errs []error

	if o.SlotGranularityMinutes != nil && *o.SlotGranularityMinutes <= 0 {
		errs = append(errs, errors.New("slotGranularityMinutes must be positive"))
	}
	if o.DefaultAppointmentMinutes != nil && *o.DefaultAppointmentMinutes <= 0 {
		errs = append(errs, errors.New("defaultAppointmentMinutes must be positive"))
	}
	if o.CancellationWindowHours != nil && *o.CancellationWindowHours < 0 {
		errs = append(errs, errors.New("cancellationWindowHours must not be negative"))
	}
	if o.Timezone != nil && !timezone.IsValid(*o.Timezone) {
		errs = append(errs, fmt.Errorf("unknown timezone %q", *o.Timezone))
	}
	if o.OpenTime != nil {
		if _, ok := ParseClock(*o.OpenTime); !ok {
			errs = append(errs, fmt.Errorf("invalid openTime %q", *o.OpenTime))
		}
	}
	if o.CloseTime != nil {
		if _, ok := ParseClock(*o.CloseTime); !ok {
			errs = append(errs, fmt.Errorf("invalid closeTime %q", *o.CloseTime))
		}
	}
	return errors.Join(errs...)
}

// ParseOverride reads a staff override document. Malformed documents yield
// an empty Override and fields with unexpected types are skipped one by one;
// parsing never fails.
func ParseOverride(doc string) Override {
	var o Override
	if strings.TrimSpace(doc) == "" {
		return o
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return Override{}
	}

	for key, val := range raw {
		switch normalizeKey(key) {
		case "slotgranularityminutes":
			o.SlotGranularityMinutes = decodeInt(val)
		case "allowanonymousappointments":
			o.AllowAnonymousAppointments = decodeBool(val)
		case "cancellationwindowhours":
			o.CancellationWindowHours = decodeInt(val)
		case "timezone":
			o.Timezone = decodeString(val)
		case "businessdays":
			o.BusinessDays = parseDaysJSON(val)
		case "opentime":
			o.OpenTime = decodeString(val)
		case "closetime":
			o.CloseTime = decodeString(val)
		case "defaultappointmentminutes":
			o.DefaultAppointmentMinutes = decodeInt(val)
		}
	}
	return o
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.ReplaceAll(k, "_", ""))
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func decodeInt(raw json.RawMessage) *int {
	if isNull(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	n := int(f)
	if float64(n) != f {
		return nil
	}
	return &n
}

func decodeBool(raw json.RawMessage) *bool {
	if isNull(raw) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil
	}
	return &b
}

func decodeString(raw json.RawMessage) *string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
