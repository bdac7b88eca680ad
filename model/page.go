package model

import "math"

// Page is one logical page of a document: positioned text elements plus the
// rulings drawn on it. The page transitively owns both; extractors reference
// position data by value and never alias back into the page.
type Page struct {
	Number int
	Top    float64
	Left   float64
	Width  float64
	Height float64

	Elements []*TextElement
	Rulings  []*Ruling

	minCharWidth  float64
	minCharHeight float64
}

// NewPage creates an empty page with the given dimensions.
func NewPage(width, height float64) *Page {
	return &Page{Width: width, Height: height}
}

// Right returns the right edge X coordinate.
func (p *Page) Right() float64 { return p.Left + p.Width }

// Bottom returns the bottom edge Y coordinate.
func (p *Page) Bottom() float64 { return p.Top + p.Height }

// Rect returns the page bounds as a rectangle.
func (p *Page) Rect() Rectangle {
	return NewRectangle(p.Top, p.Left, p.Width, p.Height)
}

// AddText appends a text element to the page.
func (p *Page) AddText(te *TextElement) {
	p.Elements = append(p.Elements, te)
	p.minCharWidth, p.minCharHeight = 0, 0
}

// AddRuling appends a ruling to the page.
func (p *Page) AddRuling(r *Ruling) {
	p.Rulings = append(p.Rulings, r)
}

// Text returns the page's text elements.
func (p *Page) Text() []*TextElement { return p.Elements }

// HorizontalRulings returns copies of the page's horizontal rulings.
func (p *Page) HorizontalRulings() []*Ruling {
	var out []*Ruling
	for _, r := range p.Rulings {
		if r.Valid() && r.Horizontal() {
			c := *r
			out = append(out, &c)
		}
	}
	return out
}

// VerticalRulings returns copies of the page's vertical rulings.
func (p *Page) VerticalRulings() []*Ruling {
	var out []*Ruling
	for _, r := range p.Rulings {
		if r.Valid() && r.Vertical() {
			c := *r
			out = append(out, &c)
		}
	}
	return out
}

// TextBounds returns the bounding rectangle of all text on the page, or a
// zero rectangle for an empty page.
func (p *Page) TextBounds() Rectangle {
	if len(p.Elements) == 0 {
		return Rectangle{}
	}
	bbox := p.Elements[0].Rectangle
	for _, te := range p.Elements[1:] {
		bbox = bbox.Merge(te.Rectangle)
	}
	return bbox
}

// MinCharWidth returns the narrowest glyph width on the page.
func (p *Page) MinCharWidth() float64 {
	if p.minCharWidth == 0 {
		p.computeCharExtents()
	}
	return p.minCharWidth
}

// MinCharHeight returns the shortest glyph height on the page.
func (p *Page) MinCharHeight() float64 {
	if p.minCharHeight == 0 {
		p.computeCharExtents()
	}
	return p.minCharHeight
}

func (p *Page) computeCharExtents() {
	w, h := math.MaxFloat64, math.MaxFloat64
	for _, te := range p.Elements {
		if te.Width > 0 && te.Width < w {
			w = te.Width
		}
		if te.Height > 0 && te.Height < h {
			h = te.Height
		}
	}
	if w == math.MaxFloat64 {
		w = 1
	}
	if h == math.MaxFloat64 {
		h = 1
	}
	p.minCharWidth, p.minCharHeight = w, h
}

// IntersectsLine reports whether at least part of the ruling lies on the page.
func (p *Page) IntersectsLine(r *Ruling) bool {
	return p.Rect().IntersectsLine(r)
}

// Area returns a sub-page view covering the given region. Text elements fully
// contained in the region are carried over; rulings are clipped to it.
func (p *Page) Area(region Rectangle) *Page {
	sub := &Page{
		Number: p.Number,
		Top:    region.Top,
		Left:   region.Left,
		Width:  region.Width,
		Height: region.Height,
	}
	for _, te := range p.Elements {
		if region.Contains(te.Rectangle) {
			sub.Elements = append(sub.Elements, te)
		}
	}
	for _, r := range p.Rulings {
		if clipped := clipRuling(r, region); clipped != nil {
			sub.Rulings = append(sub.Rulings, clipped)
		}
	}
	return sub
}

// clipRuling intersects an oriented ruling with a rectangle, returning nil
// when nothing remains.
func clipRuling(r *Ruling, region Rectangle) *Ruling {
	if !r.Valid() || r.Oblique() || !region.IntersectsLine(r) {
		return nil
	}
	if r.Horizontal() {
		left := math.Max(r.Left(), region.Left)
		right := math.Min(r.Right(), region.Right())
		if right <= left {
			return nil
		}
		return NewRuling(left, r.P1.Y, right, r.P1.Y)
	}
	top := math.Max(r.Top(), region.Top)
	bottom := math.Min(r.Bottom(), region.Bottom())
	if bottom <= top {
		return nil
	}
	return NewRuling(r.P1.X, top, r.P1.X, bottom)
}
