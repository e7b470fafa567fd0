package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersect(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want Interval
		ok   bool
	}{
		{name: "overlap", a: Interval{60, 120}, b: Interval{90, 180}, want: Interval{90, 120}, ok: true},
		{name: "contained", a: Interval{0, 1440}, b: Interval{540, 600}, want: Interval{540, 600}, ok: true},
		{name: "touching edges", a: Interval{60, 120}, b: Interval{120, 180}, ok: false},
		{name: "disjoint", a: Interval{60, 120}, b: Interval{200, 300}, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Intersect(tc.a, tc.b)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestSubtractOne(t *testing.T) {
	t.Run("no overlap returns interval unchanged", func(t *testing.T) {
		out := SubtractOne(Interval{540, 600}, Interval{600, 660})
		assert.Equal(t, []Interval{{540, 600}}, out)
	})

	t.Run("blocker splits interval", func(t *testing.T) {
		out := SubtractOne(Interval{540, 720}, Interval{600, 660})
		assert.Equal(t, []Interval{{540, 600}, {660, 720}}, out)
	})

	t.Run("blocker trims leading edge", func(t *testing.T) {
		out := SubtractOne(Interval{540, 720}, Interval{500, 600})
		assert.Equal(t, []Interval{{600, 720}}, out)
	})

	t.Run("blocker swallows interval", func(t *testing.T) {
		out := SubtractOne(Interval{540, 600}, Interval{500, 660})
		assert.Empty(t, out)
	})
}

func TestSubtractManyNeverEmitsEmptyPieces(t *testing.T) {
	intervals := []Interval{{540, 1020}}
	blockers := []Interval{{540, 560}, {560, 580}, {700, 720}, {1000, 1020}}

	out := SubtractMany(intervals, blockers)
	for _, iv := range out {
		assert.Less(t, iv.Start, iv.End)
	}
	assert.Equal(t, []Interval{{580, 700}, {720, 1000}}, out)
}

func TestSubtractManyReconstructsOriginal(t *testing.T) {
	original := Interval{480, 1080}
	blockers := []Interval{{500, 560}, {600, 660}, {1040, 1100}}

	out := SubtractMany([]Interval{original}, blockers)

	// Surviving pieces plus the overlap each blocker removed must cover the
	// original minute for minute.
	covered := make(map[int]bool)
	for _, iv := range out {
		require.GreaterOrEqual(t, iv.Start, original.Start)
		require.LessOrEqual(t, iv.End, original.End)
		for m := iv.Start; m < iv.End; m++ {
			require.False(t, covered[m], "pieces overlap at minute %d", m)
			covered[m] = true
		}
	}
	for _, b := range blockers {
		if overlap, ok := Intersect(original, b); ok {
			for m := overlap.Start; m < overlap.End; m++ {
				covered[m] = true
			}
		}
	}
	for m := original.Start; m < original.End; m++ {
		assert.True(t, covered[m], "minute %d lost", m)
	}
}

func TestSubtractManySortedOutput(t *testing.T) {
	out := SubtractMany([]Interval{{600, 720}, {480, 540}}, []Interval{{500, 510}})
	for i := 1; i < len(out); i++ {
		assert.Less(t, out[i-1].End, out[i].Start+1)
	}
}
