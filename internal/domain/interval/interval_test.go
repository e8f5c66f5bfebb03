package interval

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func rng(h1, m1, h2, m2 int) Range {
	return New(at(h1, m1), at(h2, m2))
}

func TestIntersect(t *testing.T) {
	got, ok := Intersect(rng(9, 0, 12, 0), rng(11, 0, 14, 0))
	require.True(t, ok)
	assert.Equal(t, rng(11, 0, 12, 0), got)

	_, ok = Intersect(rng(9, 0, 10, 0), rng(10, 0, 11, 0))
	assert.False(t, ok, "adjacent ranges have no overlap")

	_, ok = Intersect(rng(9, 0, 10, 0), rng(13, 0, 14, 0))
	assert.False(t, ok)

	got, ok = Intersect(rng(8, 0, 18, 0), rng(9, 30, 9, 45))
	require.True(t, ok)
	assert.Equal(t, rng(9, 30, 9, 45), got)
}

func TestMerge(t *testing.T) {
	got := Merge([]Range{
		rng(13, 0, 14, 0),
		rng(9, 0, 10, 0),
		rng(10, 0, 11, 0),
		rng(9, 30, 9, 45),
		rng(15, 0, 15, 0),
	})

	assert.Equal(t, []Range{rng(9, 0, 11, 0), rng(13, 0, 14, 0)}, got)
	assert.Nil(t, Merge(nil))
}

func TestSubtract(t *testing.T) {
	window := rng(9, 0, 17, 0)

	tests := []struct {
		name     string
		blockers []Range
		want     []Range
	}{
		{
			name: "no blockers",
			want: []Range{window},
		},
		{
			name:     "blocker inside",
			blockers: []Range{rng(10, 0, 11, 0)},
			want:     []Range{rng(9, 0, 10, 0), rng(11, 0, 17, 0)},
		},
		{
			name:     "blocker covers window",
			blockers: []Range{rng(8, 0, 18, 0)},
			want:     nil,
		},
		{
			name:     "partial at both edges",
			blockers: []Range{rng(16, 30, 18, 0), rng(8, 0, 9, 30)},
			want:     []Range{rng(9, 30, 16, 30)},
		},
		{
			name:     "blockers outside",
			blockers: []Range{rng(6, 0, 7, 0), rng(17, 0, 19, 0)},
			want:     []Range{window},
		},
		{
			name:     "overlapping unsorted blockers",
			blockers: []Range{rng(12, 0, 13, 0), rng(10, 0, 12, 30), rng(10, 30, 11, 0)},
			want:     []Range{rng(9, 0, 10, 0), rng(13, 0, 17, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subtract(window, tt.blockers))
		})
	}
}

func TestSubtractInvalidWindow(t *testing.T) {
	assert.Nil(t, Subtract(rng(10, 0, 9, 0), nil))
}

// Free ranges plus the clipped blockers tile the window exactly.
func TestSubtractCoversWindow(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	window := rng(8, 0, 20, 0)

	for i := 0; i < 200; i++ {
		var blockers []Range
		n := r.Intn(8)
		for j := 0; j < n; j++ {
			start := at(6, 0).Add(time.Duration(r.Intn(16*60)) * time.Minute)
			blockers = append(blockers, New(start, start.Add(time.Duration(r.Intn(180)+1)*time.Minute)))
		}

		free := Subtract(window, blockers)

		var total time.Duration
		for k, f := range free {
			require.True(t, f.Valid())
			require.True(t, window.Contains(f))
			require.False(t, f.OverlapsAny(blockers))
			if k > 0 {
				require.True(t, free[k-1].End.Before(f.Start) || free[k-1].End.Equal(f.Start))
			}
			total += f.Duration()
		}

		for _, b := range Merge(blockers) {
			if clipped, ok := Intersect(window, b); ok {
				total += clipped.Duration()
			}
		}
		require.Equal(t, window.Duration(), total)
	}
}
