package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectangleEdges(t *testing.T) {
	r := NewRectangle(10, 20, 30, 40)

	assert.Equal(t, 10.0, r.Top)
	assert.Equal(t, 20.0, r.Left)
	assert.Equal(t, 50.0, r.Right())
	assert.Equal(t, 50.0, r.Bottom())
	assert.Equal(t, 1200.0, r.Area())
	assert.Equal(t, Point{X: 35, Y: 30}, r.Center())
}

func TestRectangleMerge(t *testing.T) {
	a := NewRectangle(0, 0, 10, 10)
	b := NewRectangle(20, 30, 10, 10)

	merged := a.Merge(b)

	assert.Equal(t, NewRectangle(0, 0, 40, 30), merged)
	assert.True(t, merged.Contains(a))
	assert.True(t, merged.Contains(b))
}

func TestRectangleOverlap(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Rectangle
		intersect bool
		ratio     float64
	}{
		{
			name:      "identical",
			a:         NewRectangle(0, 0, 10, 10),
			b:         NewRectangle(0, 0, 10, 10),
			intersect: true,
			ratio:     1.0,
		},
		{
			name:      "disjoint",
			a:         NewRectangle(0, 0, 10, 10),
			b:         NewRectangle(50, 50, 10, 10),
			intersect: false,
			ratio:     0,
		},
		{
			name:      "half of smaller",
			a:         NewRectangle(0, 0, 20, 10),
			b:         NewRectangle(0, 15, 10, 10),
			intersect: true,
			ratio:     0.5,
		},
		{
			name:      "contained",
			a:         NewRectangle(0, 0, 100, 100),
			b:         NewRectangle(10, 10, 10, 10),
			intersect: true,
			ratio:     1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.intersect, tt.a.Intersects(tt.b))
			assert.InDelta(t, tt.ratio, tt.a.OverlapRatio(tt.b), 1e-9)
		})
	}
}

func TestRectangleHorizontalOverlap(t *testing.T) {
	a := NewRectangle(0, 0, 10, 10)
	b := NewRectangle(500, 5, 10, 10) // far below, overlapping X interval

	assert.True(t, a.HorizontallyOverlaps(b))
	assert.False(t, a.Intersects(b))
	assert.Equal(t, 5.0, a.HorizontalOverlap(b))
}

func TestRectangleVerticalOverlapPercent(t *testing.T) {
	a := NewRectangle(0, 0, 10, 10)
	b := NewRectangle(5, 500, 10, 10)

	assert.InDelta(t, 0.5, a.VerticalOverlapPercent(b), 1e-9)
	assert.Equal(t, 0.0, a.VerticalOverlapPercent(NewRectangle(100, 0, 10, 10)))
}

func TestRectanglePoints(t *testing.T) {
	pts := NewRectangle(10, 20, 30, 40).Points()

	assert.Equal(t, Point{X: 20, Y: 10}, pts[0])
	assert.Equal(t, Point{X: 50, Y: 10}, pts[1])
	assert.Equal(t, Point{X: 50, Y: 50}, pts[2])
	assert.Equal(t, Point{X: 20, Y: 50}, pts[3])
}

func TestRectangleSetters(t *testing.T) {
	r := NewRectangle(10, 10, 20, 20)

	r.SetTop(5)
	assert.Equal(t, 5.0, r.Top)
	assert.Equal(t, 30.0, r.Bottom())

	r.SetBottom(40)
	assert.Equal(t, 40.0, r.Bottom())
	assert.Equal(t, 5.0, r.Top)

	r.SetLeft(0)
	assert.Equal(t, 0.0, r.Left)
	assert.Equal(t, 30.0, r.Right())

	r.SetRight(50)
	assert.Equal(t, 50.0, r.Right())
}

func TestRulingOrientation(t *testing.T) {
	tests := []struct {
		name       string
		ruling     *Ruling
		horizontal bool
		vertical   bool
	}{
		{"horizontal", NewRuling(0, 5, 100, 5), true, false},
		{"vertical", NewRuling(5, 0, 5, 100), false, true},
		{"oblique", NewRuling(0, 0, 100, 100), false, false},
		{"zero length", NewRuling(5, 5, 5, 5), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.horizontal, tt.ruling.Horizontal())
			assert.Equal(t, tt.vertical, tt.ruling.Vertical())
			assert.Equal(t, !tt.horizontal && !tt.vertical, tt.ruling.Oblique())
		})
	}
}

func TestRulingNormalize(t *testing.T) {
	// nearly horizontal: wobble within one degree gets squashed
	r := NewRuling(0, 10, 100, 10.5)
	r.Normalize()
	assert.True(t, r.Horizontal())
	assert.Equal(t, 10.25, r.P1.Y)

	// nearly vertical
	r = NewRuling(10, 0, 10.5, 100)
	r.Normalize()
	assert.True(t, r.Vertical())

	// a 45-degree diagonal stays oblique
	r = NewRuling(0, 0, 100, 100)
	r.Normalize()
	assert.True(t, r.Oblique())
}

func TestRulingValid(t *testing.T) {
	assert.True(t, NewRuling(0, 0, 10, 0).Valid())
	assert.False(t, NewRuling(math.NaN(), 0, 10, 0).Valid())
	assert.False(t, NewRuling(0, 0, math.Inf(1), 0).Valid())
}

func TestRulingIntersectsLine(t *testing.T) {
	h := NewRuling(0, 50, 100, 50)
	v := NewRuling(30, 0, 30, 100)

	assert.True(t, h.IntersectsLine(v))
	assert.True(t, v.IntersectsLine(h))

	p, ok := h.IntersectionPoint(v)
	require.True(t, ok)
	assert.Equal(t, Point{X: 30, Y: 50}, p)

	// vertical segment ending above the horizontal one
	short := NewRuling(30, 0, 30, 20)
	assert.False(t, h.IntersectsLine(short))
	_, ok = h.IntersectionPoint(short)
	assert.False(t, ok)
}

func TestSnapPointsClusters(t *testing.T) {
	rulings := []*Ruling{
		NewRuling(10, 0, 10, 100),
		NewRuling(13, 0, 13, 100),
		NewRuling(30, 0, 30, 100),
	}

	SnapPoints(rulings, 8, 8)

	assert.Equal(t, 11.5, rulings[0].P1.X)
	assert.Equal(t, 11.5, rulings[1].P1.X)
	assert.Equal(t, 30.0, rulings[2].P1.X)
}

func TestSnapPointsStability(t *testing.T) {
	rulings := []*Ruling{
		NewRuling(10, 0, 100, 3),
		NewRuling(12, 95, 200, 0),
		NewRuling(40, 50, 40, 150),
	}

	SnapPoints(rulings, 8, 8)

	before := make([]Ruling, len(rulings))
	for i, r := range rulings {
		before[i] = *r
	}

	// snapping an already-snapped set at the same tolerance is a no-op
	SnapPoints(rulings, 8, 8)
	for i, r := range rulings {
		assert.Equal(t, before[i], *r)
	}
}

func TestCollapseOrientedRulings(t *testing.T) {
	rulings := []*Ruling{
		NewRuling(0, 5, 40, 5),
		NewRuling(42, 5, 100, 5),
		NewRuling(0, 20, 100, 20),
		NewRuling(7, 7, 7, 7), // degenerate, dropped
	}

	collapsed := CollapseOrientedRulings(rulings, 5)

	require.Len(t, collapsed, 2)
	assert.Equal(t, 0.0, collapsed[0].Left())
	assert.Equal(t, 100.0, collapsed[0].Right())
	assert.Equal(t, 5.0, collapsed[0].P1.Y)
	assert.Equal(t, 20.0, collapsed[1].P1.Y)
}

func TestCollapseKeepsDistantRulings(t *testing.T) {
	rulings := []*Ruling{
		NewRuling(0, 5, 40, 5),
		NewRuling(60, 5, 100, 5), // gap of 20 > expansion
	}

	collapsed := CollapseOrientedRulings(rulings, 5)
	assert.Len(t, collapsed, 2)
}

func TestNormalizeCollapseOrientationInvariant(t *testing.T) {
	// after normalize+collapse no ruling may have both dx and dy non-zero
	rulings := []*Ruling{
		NewRuling(0, 10, 100, 10.4),
		NewRuling(105, 10.4, 200, 10),
		NewRuling(50, 0, 50.3, 80),
	}
	for _, r := range rulings {
		r.Normalize()
	}

	var horizontal, vertical []*Ruling
	for _, r := range rulings {
		switch {
		case r.Horizontal():
			horizontal = append(horizontal, r)
		case r.Vertical():
			vertical = append(vertical, r)
		}
	}
	for _, r := range append(CollapseOrientedRulings(horizontal, 5), CollapseOrientedRulings(vertical, 5)...) {
		dx := r.P2.X - r.P1.X
		dy := r.P2.Y - r.P1.Y
		assert.False(t, dx != 0 && dy != 0)
	}
}
