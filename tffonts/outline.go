package tffonts

import (
	"oss.terrastruct.com/tefcha/lib/geo"
	"oss.terrastruct.com/tefcha/lib/svg"
)

type segment struct {
	verb byte
	args []float64
}

// Outline is the traced glyph geometry of one line of text in SVG user space.
type Outline struct {
	segments []segment
	bbox     geo.BoundingBox
	curX     float64
	curY     float64
}

func (o *Outline) moveTo(x, y float64) {
	o.segments = append(o.segments, segment{'M', []float64{x, y}})
	o.bbox.AddPoint(x, y)
	o.curX, o.curY = x, y
}

func (o *Outline) lineTo(x, y float64) {
	o.segments = append(o.segments, segment{'L', []float64{x, y}})
	o.bbox.AddPoint(x, y)
	o.curX, o.curY = x, y
}

func (o *Outline) quadTo(x1, y1, x, y float64) {
	o.segments = append(o.segments, segment{'Q', []float64{x1, y1, x, y}})
	o.bbox.AddQuad(o.curX, o.curY, x1, y1, x, y)
	o.curX, o.curY = x, y
}

func (o *Outline) close() {
	if len(o.segments) > 0 && o.segments[len(o.segments)-1].verb != 'Z' {
		o.segments = append(o.segments, segment{verb: 'Z'})
	}
}

// BoundingBox is empty for text without visible glyphs.
func (o *Outline) BoundingBox() geo.BoundingBox {
	return o.bbox
}

// X2 is the right edge of the ink, 0 when nothing is drawn.
func (o *Outline) X2() float64 {
	if o.bbox.IsEmpty() {
		return 0
	}
	return o.bbox.X2
}

// PathData is the d attribute of the outline with numbers rounded to precision digits.
func (o *Outline) PathData(precision int) string {
	pc := svg.NewPathContext(precision)
	for _, s := range o.segments {
		switch s.verb {
		case 'M':
			pc.StartAt(s.args[0], s.args[1])
		case 'L':
			pc.L(s.args[0], s.args[1])
		case 'Q':
			pc.Q(s.args[0], s.args[1], s.args[2], s.args[3])
		case 'Z':
			pc.Z()
		}
	}
	return pc.PathData()
}

// ToSVG serializes the outline as a self-closing path element.
func (o *Outline) ToSVG(precision int) string {
	return `<path d="` + o.PathData(precision) + `"/>`
}
