package settings

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// dayNames maps lowercase, accent-free names and abbreviations to 0=Sunday..6=Saturday.
var dayNames = map[string]int{
	"sun": 0, "sunday": 0, "dom": 0, "domingo": 0,
	"mon": 1, "monday": 1, "seg": 1, "segunda": 1, "lun": 1, "lunes": 1,
	"tue": 2, "tues": 2, "tuesday": 2, "ter": 2, "terca": 2, "martes": 2,
	"wed": 3, "wednesday": 3, "qua": 3, "quarta": 3, "mie": 3, "miercoles": 3,
	"thu": 4, "thur": 4, "thurs": 4, "thursday": 4, "qui": 4, "quinta": 4, "jue": 4, "jueves": 4,
	"fri": 5, "friday": 5, "sex": 5, "sexta": 5, "vie": 5, "viernes": 5,
	"sat": 6, "saturday": 6, "sab": 6, "sabado": 6,
}

// ParseDay normalizes one day-of-week token to 0..6. Accepted forms are
// numeric strings, three-letter codes and full names (English, Portuguese,
// Spanish), case and accent insensitive.
func ParseDay(raw string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, false
		}
		return n, true
	}

	s = foldAccents(s)
	s = strings.TrimSuffix(s, "-feira")
	s = strings.TrimSuffix(s, " feira")

	d, ok := dayNames[s]
	return d, ok
}

// ParseDayList parses a comma-separated list such as "1,2,3" or "seg, ter".
// Unparseable entries are dropped.
func ParseDayList(csv string) []int {
	var days []int
	for _, part := range strings.Split(csv, ",") {
		if d, ok := ParseDay(part); ok {
			days = append(days, d)
		}
	}
	return canonicalDays(days)
}

// parseDaysJSON accepts an array of numbers and/or strings, a single
// comma-separated string or a single number.
func parseDaysJSON(raw json.RawMessage) []int {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		items = []json.RawMessage{raw}
	}

	var days []int
	for _, it := range items {
		var f float64
		if err := json.Unmarshal(it, &f); err == nil {
			if f == float64(int(f)) && f >= 0 && f <= 6 {
				days = append(days, int(f))
			}
			continue
		}

		var s string
		if err := json.Unmarshal(it, &s); err == nil {
			days = append(days, ParseDayList(s)...)
		}
	}
	return canonicalDays(days)
}

func canonicalDays(days []int) []int {
	if len(days) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
