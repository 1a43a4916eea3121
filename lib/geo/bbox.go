package geo

import "oss.terrastruct.com/tefcha/lib/go2"

// BoundingBox is an axis aligned box grown point by point. The zero value is empty.
type BoundingBox struct {
	X1, Y1 float64
	X2, Y2 float64

	nonEmpty bool
}

func (b *BoundingBox) IsEmpty() bool {
	return !b.nonEmpty
}

func (b *BoundingBox) Width() float64 {
	return b.X2 - b.X1
}

func (b *BoundingBox) Height() float64 {
	return b.Y2 - b.Y1
}

func (b *BoundingBox) AddPoint(x, y float64) {
	if !b.nonEmpty {
		b.X1, b.X2 = x, x
		b.Y1, b.Y2 = y, y
		b.nonEmpty = true
		return
	}
	b.X1 = go2.Min(b.X1, x)
	b.Y1 = go2.Min(b.Y1, y)
	b.X2 = go2.Max(b.X2, x)
	b.Y2 = go2.Max(b.Y2, y)
}

// AddQuad adds the quadratic Bézier curve from (x0, y0) through control (x1, y1) to (x, y).
// The curve's extrema are included, not its control point.
func (b *BoundingBox) AddQuad(x0, y0, x1, y1, x, y float64) {
	b.AddPoint(x0, y0)
	b.AddPoint(x, y)
	if t, ok := quadExtremum(x0, x1, x); ok {
		b.AddPoint(quadAt(x0, x1, x, t), quadAt(y0, y1, y, t))
	}
	if t, ok := quadExtremum(y0, y1, y); ok {
		b.AddPoint(quadAt(x0, x1, x, t), quadAt(y0, y1, y, t))
	}
}

func (b *BoundingBox) Union(other *BoundingBox) {
	if other == nil || other.IsEmpty() {
		return
	}
	b.AddPoint(other.X1, other.Y1)
	b.AddPoint(other.X2, other.Y2)
}

func quadExtremum(p0, p1, p2 float64) (float64, bool) {
	denom := p0 - 2*p1 + p2
	if denom == 0 {
		return 0, false
	}
	t := (p0 - p1) / denom
	if t <= 0 || t >= 1 {
		return 0, false
	}
	return t, true
}

func quadAt(p0, p1, p2, t float64) float64 {
	mt := 1 - t
	return mt*mt*p0 + 2*mt*t*p1 + t*t*p2
}
