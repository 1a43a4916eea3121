package geo

type Box struct {
	TopLeft *Point
	Width   float64
	Height  float64
}

func NewBox(tl *Point, width, height float64) *Box {
	return &Box{
		TopLeft: tl,
		Width:   width,
		Height:  height,
	}
}

// EdgeMidpoints returns the midpoints of the top, right, bottom and left edges in that order.
func (b *Box) EdgeMidpoints() Points {
	tl := b.TopLeft
	return Points{
		NewPoint(tl.X+b.Width/2, tl.Y),
		NewPoint(tl.X+b.Width, tl.Y+b.Height/2),
		NewPoint(tl.X+b.Width/2, tl.Y+b.Height),
		NewPoint(tl.X, tl.Y+b.Height/2),
	}
}
