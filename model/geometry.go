package model

import (
	"math"
	"sort"
)

// Point represents a 2D point in page coordinates (origin top-left, Y down).
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rectangle is an axis-aligned box. Coordinates follow the page convention:
// Top is the smallest Y value, Bottom the largest.
type Rectangle struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// NewRectangle creates a rectangle from its top-left corner and dimensions.
func NewRectangle(top, left, width, height float64) Rectangle {
	return Rectangle{Top: top, Left: left, Width: width, Height: height}
}

// BoundingBoxOf returns the smallest rectangle enclosing all the given rectangles.
func BoundingBoxOf(rects []Rectangle) Rectangle {
	if len(rects) == 0 {
		return Rectangle{}
	}
	bbox := rects[0]
	for _, r := range rects[1:] {
		bbox = bbox.Merge(r)
	}
	return bbox
}

// Bottom returns the bottom edge Y coordinate.
func (r Rectangle) Bottom() float64 {
	return r.Top + r.Height
}

// Right returns the right edge X coordinate.
func (r Rectangle) Right() float64 {
	return r.Left + r.Width
}

// Area returns the rectangle's area.
func (r Rectangle) Area() float64 {
	return r.Width * r.Height
}

// Center returns the geometric center of the rectangle.
func (r Rectangle) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Points returns the four corners in clockwise order starting at the top-left.
func (r Rectangle) Points() [4]Point {
	return [4]Point{
		{X: r.Left, Y: r.Top},
		{X: r.Right(), Y: r.Top},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.Left, Y: r.Bottom()},
	}
}

// Merge returns the bounding-box union of the two rectangles.
func (r Rectangle) Merge(other Rectangle) Rectangle {
	top := math.Min(r.Top, other.Top)
	left := math.Min(r.Left, other.Left)
	bottom := math.Max(r.Bottom(), other.Bottom())
	right := math.Max(r.Right(), other.Right())
	return Rectangle{Top: top, Left: left, Width: right - left, Height: bottom - top}
}

// Contains reports whether other lies entirely inside r.
func (r Rectangle) Contains(other Rectangle) bool {
	return other.Left >= r.Left && other.Right() <= r.Right() &&
		other.Top >= r.Top && other.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether the point lies inside r (edges inclusive).
func (r Rectangle) ContainsPoint(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() &&
		p.Y >= r.Top && p.Y <= r.Bottom()
}

// Intersects reports whether the two rectangles overlap.
func (r Rectangle) Intersects(other Rectangle) bool {
	return !(r.Right() < other.Left || r.Left > other.Right() ||
		r.Bottom() < other.Top || r.Top > other.Bottom())
}

// Intersection returns the overlapping region, or a zero rectangle if none.
func (r Rectangle) Intersection(other Rectangle) Rectangle {
	if !r.Intersects(other) {
		return Rectangle{}
	}
	top := math.Max(r.Top, other.Top)
	left := math.Max(r.Left, other.Left)
	bottom := math.Min(r.Bottom(), other.Bottom())
	right := math.Min(r.Right(), other.Right())
	return Rectangle{Top: top, Left: left, Width: right - left, Height: bottom - top}
}

// HorizontallyOverlaps reports whether the X intervals of the rectangles overlap.
func (r Rectangle) HorizontallyOverlaps(other Rectangle) bool {
	return r.HorizontalOverlap(other) > 0
}

// HorizontalOverlap returns the length of the overlapping X interval.
func (r Rectangle) HorizontalOverlap(other Rectangle) float64 {
	return math.Max(0, math.Min(r.Right(), other.Right())-math.Max(r.Left, other.Left))
}

// VerticallyOverlaps reports whether the Y intervals of the rectangles overlap.
func (r Rectangle) VerticallyOverlaps(other Rectangle) bool {
	return r.VerticalOverlap(other) > 0
}

// VerticalOverlap returns the length of the overlapping Y interval.
func (r Rectangle) VerticalOverlap(other Rectangle) float64 {
	return math.Max(0, math.Min(r.Bottom(), other.Bottom())-math.Max(r.Top, other.Top))
}

// VerticalOverlapPercent returns the overlapping Y interval as a fraction of the
// taller rectangle's height.
func (r Rectangle) VerticalOverlapPercent(other Rectangle) float64 {
	denom := math.Max(r.Height, other.Height)
	if denom == 0 {
		return 0
	}
	return r.VerticalOverlap(other) / denom
}

// OverlapRatio returns the intersection area divided by the smaller rectangle's
// area, in [0, 1].
func (r Rectangle) OverlapRatio(other Rectangle) float64 {
	if !r.Intersects(other) {
		return 0
	}
	minArea := math.Min(r.Area(), other.Area())
	if minArea == 0 {
		return 0
	}
	return r.Intersection(other).Area() / minArea
}

// IntersectsLine reports whether the ruling's segment passes through r.
func (r Rectangle) IntersectsLine(rl *Ruling) bool {
	if rl == nil {
		return false
	}
	x1, y1 := math.Min(rl.P1.X, rl.P2.X), math.Min(rl.P1.Y, rl.P2.Y)
	x2, y2 := math.Max(rl.P1.X, rl.P2.X), math.Max(rl.P1.Y, rl.P2.Y)
	return x2 >= r.Left && x1 <= r.Right() && y2 >= r.Top && y1 <= r.Bottom()
}

// Expand returns a copy of r grown by the margin on every side.
func (r Rectangle) Expand(margin float64) Rectangle {
	return Rectangle{
		Top:    r.Top - margin,
		Left:   r.Left - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// SetTop moves the top edge, adjusting the height so the bottom edge stays put.
func (r *Rectangle) SetTop(top float64) {
	bottom := r.Bottom()
	r.Top = top
	r.Height = bottom - top
}

// SetBottom moves the bottom edge.
func (r *Rectangle) SetBottom(bottom float64) {
	r.Height = bottom - r.Top
}

// SetLeft moves the left edge, adjusting the width so the right edge stays put.
func (r *Rectangle) SetLeft(left float64) {
	right := r.Right()
	r.Left = left
	r.Width = right - left
}

// SetRight moves the right edge.
func (r *Rectangle) SetRight(right float64) {
	r.Width = right - r.Left
}

// Ruling is a line segment drawn in the document or detected in its raster.
// After Normalize, a valid ruling is strictly horizontal or strictly vertical;
// anything else is oblique and gets discarded by the callers that care.
type Ruling struct {
	P1, P2 Point
}

// orientation tolerance: segments within one degree of an axis are squashed
// onto it by Normalize.
const obliqueToleranceDegrees = 1.0

// NewRuling creates a ruling between two endpoints.
func NewRuling(x1, y1, x2, y2 float64) *Ruling {
	return &Ruling{P1: Point{X: x1, Y: y1}, P2: Point{X: x2, Y: y2}}
}

// NewRulingAt creates a ruling from a top-left corner and extents, mirroring
// the rectangle constructor convention.
func NewRulingAt(top, left, width, height float64) *Ruling {
	return NewRuling(left, top, left+width, top+height)
}

// X1 returns the first endpoint's X coordinate.
func (r *Ruling) X1() float64 { return r.P1.X }

// Y1 returns the first endpoint's Y coordinate.
func (r *Ruling) Y1() float64 { return r.P1.Y }

// X2 returns the second endpoint's X coordinate.
func (r *Ruling) X2() float64 { return r.P2.X }

// Y2 returns the second endpoint's Y coordinate.
func (r *Ruling) Y2() float64 { return r.P2.Y }

// Left returns the smaller X coordinate.
func (r *Ruling) Left() float64 { return math.Min(r.P1.X, r.P2.X) }

// Right returns the larger X coordinate.
func (r *Ruling) Right() float64 { return math.Max(r.P1.X, r.P2.X) }

// Top returns the smaller Y coordinate.
func (r *Ruling) Top() float64 { return math.Min(r.P1.Y, r.P2.Y) }

// Bottom returns the larger Y coordinate.
func (r *Ruling) Bottom() float64 { return math.Max(r.P1.Y, r.P2.Y) }

// Length returns the segment length.
func (r *Ruling) Length() float64 {
	return r.P1.Distance(r.P2)
}

// Horizontal reports whether the ruling is a non-degenerate horizontal segment.
func (r *Ruling) Horizontal() bool {
	return r.Length() > 0 && r.P1.Y == r.P2.Y
}

// Vertical reports whether the ruling is a non-degenerate vertical segment.
func (r *Ruling) Vertical() bool {
	return r.Length() > 0 && r.P1.X == r.P2.X
}

// Oblique reports whether the ruling is neither horizontal nor vertical.
func (r *Ruling) Oblique() bool {
	return !r.Horizontal() && !r.Vertical()
}

// Position returns the constant coordinate of an oriented ruling: Y for
// horizontal, X for vertical.
func (r *Ruling) Position() float64 {
	if r.Horizontal() {
		return r.P1.Y
	}
	return r.P1.X
}

// Start returns the smaller varying coordinate of an oriented ruling.
func (r *Ruling) Start() float64 {
	if r.Horizontal() {
		return r.Left()
	}
	return r.Top()
}

// End returns the larger varying coordinate of an oriented ruling.
func (r *Ruling) End() float64 {
	if r.Horizontal() {
		return r.Right()
	}
	return r.Bottom()
}

// SetStart moves the oriented ruling's start coordinate.
func (r *Ruling) SetStart(v float64) {
	if r.Horizontal() {
		if r.P1.X <= r.P2.X {
			r.P1.X = v
		} else {
			r.P2.X = v
		}
	} else {
		if r.P1.Y <= r.P2.Y {
			r.P1.Y = v
		} else {
			r.P2.Y = v
		}
	}
}

// SetEnd moves the oriented ruling's end coordinate.
func (r *Ruling) SetEnd(v float64) {
	if r.Horizontal() {
		if r.P1.X <= r.P2.X {
			r.P2.X = v
		} else {
			r.P1.X = v
		}
	} else {
		if r.P1.Y <= r.P2.Y {
			r.P2.Y = v
		} else {
			r.P1.Y = v
		}
	}
}

// angle returns the segment's angle in degrees, normalized to [0, 180).
func (r *Ruling) angle() float64 {
	deg := math.Atan2(r.P2.Y-r.P1.Y, r.P2.X-r.P1.X) * 180 / math.Pi
	if deg < 0 {
		deg += 180
	}
	return math.Mod(deg, 180)
}

// Normalize squashes a nearly horizontal or nearly vertical ruling onto its
// axis by averaging the wobbling coordinate. Truly oblique rulings are left
// alone; callers drop them via Oblique.
func (r *Ruling) Normalize() {
	deg := r.angle()
	switch {
	case deg < obliqueToleranceDegrees || math.Abs(deg-180) < obliqueToleranceDegrees:
		mid := (r.P1.Y + r.P2.Y) / 2
		r.P1.Y, r.P2.Y = mid, mid
	case math.Abs(deg-90) < obliqueToleranceDegrees:
		mid := (r.P1.X + r.P2.X) / 2
		r.P1.X, r.P2.X = mid, mid
	}
}

// Valid reports whether the ruling has finite, non-NaN coordinates.
func (r *Ruling) Valid() bool {
	for _, v := range []float64{r.P1.X, r.P1.Y, r.P2.X, r.P2.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// IntersectsLine reports whether two oriented rulings cross or colinearly
// overlap. A small tolerance absorbs endpoint jitter left over from snapping.
func (r *Ruling) IntersectsLine(other *Ruling) bool {
	const eps = 0.01
	switch {
	case r.Horizontal() && other.Vertical():
		return other.P1.X >= r.Left()-eps && other.P1.X <= r.Right()+eps &&
			r.P1.Y >= other.Top()-eps && r.P1.Y <= other.Bottom()+eps
	case r.Vertical() && other.Horizontal():
		return other.IntersectsLine(r)
	case r.Horizontal() && other.Horizontal():
		return math.Abs(r.P1.Y-other.P1.Y) <= eps &&
			r.Left() <= other.Right()+eps && other.Left() <= r.Right()+eps
	case r.Vertical() && other.Vertical():
		return math.Abs(r.P1.X-other.P1.X) <= eps &&
			r.Top() <= other.Bottom()+eps && other.Top() <= r.Bottom()+eps
	}
	return false
}

// IntersectionPoint returns the crossing point of a horizontal and a vertical
// ruling, and whether they actually cross.
func (r *Ruling) IntersectionPoint(other *Ruling) (Point, bool) {
	var h, v *Ruling
	switch {
	case r.Horizontal() && other.Vertical():
		h, v = r, other
	case r.Vertical() && other.Horizontal():
		h, v = other, r
	default:
		return Point{}, false
	}
	if !h.IntersectsLine(v) {
		return Point{}, false
	}
	return Point{X: v.P1.X, Y: h.P1.Y}, true
}

// SnapPoints clusters ruling endpoints whose X coordinates fall within
// xThreshold (respectively Y within yThreshold) and replaces each cluster with
// its average. Snapping an already-snapped set at the same tolerance is a
// no-op.
func SnapPoints(rulings []*Ruling, xThreshold, yThreshold float64) {
	xs := make([]*float64, 0, len(rulings)*2)
	ys := make([]*float64, 0, len(rulings)*2)
	for _, r := range rulings {
		xs = append(xs, &r.P1.X, &r.P2.X)
		ys = append(ys, &r.P1.Y, &r.P2.Y)
	}
	snapCoords(xs, xThreshold)
	snapCoords(ys, yThreshold)
}

func snapCoords(coords []*float64, threshold float64) {
	if len(coords) == 0 {
		return
	}
	sort.Slice(coords, func(i, j int) bool { return *coords[i] < *coords[j] })

	var cluster []*float64
	flush := func() {
		if len(cluster) == 0 {
			return
		}
		sum := 0.0
		for _, c := range cluster {
			sum += *c
		}
		avg := sum / float64(len(cluster))
		for _, c := range cluster {
			*c = avg
		}
	}

	cluster = append(cluster, coords[0])
	for _, c := range coords[1:] {
		if *c-*cluster[len(cluster)-1] < threshold {
			cluster = append(cluster, c)
		} else {
			flush()
			cluster = []*float64{c}
		}
	}
	flush()
}

// CollapseOrientedRulings merges colinear rulings whose gap is at most
// expandAmount into single longer rulings. The input must be all-horizontal or
// all-vertical; degenerate and malformed rulings are dropped.
func CollapseOrientedRulings(rulings []*Ruling, expandAmount float64) []*Ruling {
	sorted := make([]*Ruling, 0, len(rulings))
	for _, r := range rulings {
		if r.Valid() && !r.Oblique() {
			sorted = append(sorted, r)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Position() != sorted[j].Position() {
			return sorted[i].Position() < sorted[j].Position()
		}
		return sorted[i].Start() < sorted[j].Start()
	})

	var collapsed []*Ruling
	for _, next := range sorted {
		if len(collapsed) > 0 {
			last := collapsed[len(collapsed)-1]
			if next.Position() == last.Position() && next.Start()-last.End() <= expandAmount {
				if next.End() > last.End() {
					last.SetEnd(next.End())
				}
				continue
			}
		}
		c := *next
		collapsed = append(collapsed, &c)
	}
	return collapsed
}
