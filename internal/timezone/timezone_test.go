package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFallsBack(t *testing.T) {
	assert.Equal(t, "UTC", Location("UTC").String())
	assert.False(t, IsValid("Mars/Olympus"))
	assert.False(t, IsValid(""))

	loc := Location("Mars/Olympus")
	require.NotNil(t, loc)
}

func TestDaysIsInclusive(t *testing.T) {
	from := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 4, 1, 0, 0, 0, time.UTC)

	days := Days(from, to, time.UTC)
	require.Len(t, days, 3)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), days[0])
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), days[2])
}

func TestDaysFollowLocalCalendar(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	// 01:00 UTC on the 3rd is still the 2nd in BRT.
	from := time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC)

	days := Days(from, to, loc)
	require.Len(t, days, 1)
	assert.Equal(t, 2, days[0].Day())
}
