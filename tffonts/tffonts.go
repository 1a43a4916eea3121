// tffonts loads TrueType fonts and traces text into SVG glyph outlines so that
// rendered diagrams do not depend on fonts installed where they are viewed.
package tffonts

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"oss.terrastruct.com/xdefer"
)

const DefaultName = "Go Regular"

// Font is a parsed typeface. It is read only after Parse and may be shared by
// concurrent renders.
type Font struct {
	Name string
	// Ascender and Descender are in font units. Descender is usually negative.
	Ascender   float64
	Descender  float64
	UnitsPerEm int

	ttf *truetype.Font
}

func Parse(name string, ttf []byte) (_ *Font, err error) {
	defer xdefer.Errorf(&err, "failed to parse font %q", name)

	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	upem := int(f.FUnitsPerEm())
	if upem <= 0 {
		return nil, fmt.Errorf("invalid units per em: %d", upem)
	}

	// At one pixel per font unit the face metrics are the hhea metrics.
	face := truetype.NewFace(f, &truetype.Options{
		Size:    float64(upem),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	defer face.Close()
	m := face.Metrics()

	return &Font{
		Name:       name,
		Ascender:   float64(m.Ascent) / 64,
		Descender:  -float64(m.Descent) / 64,
		UnitsPerEm: upem,
		ttf:        f,
	}, nil
}

func LoadFile(path string) (_ *Font, err error) {
	defer xdefer.Errorf(&err, "failed to load font from %q", path)

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".ttf" {
		return nil, fmt.Errorf("expected a .ttf file, got %q", ext)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), b)
}

// Default parses the bundled Go Regular typeface.
func Default() (*Font, error) {
	return Parse(DefaultName, goregular.TTF)
}

// AscenderOffset is the distance from the top of a line box to its baseline.
func (f *Font) AscenderOffset(fontSize float64) float64 {
	return fontSize * f.Ascender / (f.Ascender - f.Descender)
}

// Outline traces text with its baseline starting at (x, y). The text must be a
// single line.
func (f *Font) Outline(text string, x, y, fontSize float64) (_ *Outline, err error) {
	defer xdefer.Errorf(&err, "failed to outline %q", text)

	if !(fontSize > 0) || math.IsInf(fontSize, 0) {
		return nil, fmt.Errorf("invalid font size %v", fontSize)
	}
	scale := fixed.Int26_6(math.Round(fontSize * 64))

	o := &Outline{}
	var (
		pen    fixed.Int26_6
		prev   truetype.Index
		hasPrv bool
		gbuf   truetype.GlyphBuf
	)
	for _, r := range norm.NFC.String(text) {
		idx := f.ttf.Index(r)
		if hasPrv {
			pen += f.ttf.Kern(scale, prev, idx)
		}
		if err := gbuf.Load(f.ttf, scale, idx, font.HintingNone); err != nil {
			return nil, err
		}

		origin := x + float64(pen)/64
		toPx := func(p fixed.Point26_6) (float64, float64) {
			return origin + float64(p.X)/64, y - float64(p.Y)/64
		}
		prevEnd := 0
		for _, end := range gbuf.Ends {
			drawContour(gbuf.Points[prevEnd:end], func(cmd rune, p0, p1 fixed.Point26_6) {
				x0, y0 := toPx(p0)
				switch cmd {
				case 'M':
					o.moveTo(x0, y0)
				case 'L':
					o.lineTo(x0, y0)
				case 'Q':
					x1, y1 := toPx(p1)
					o.quadTo(x0, y0, x1, y1)
				}
			})
			o.close()
			prevEnd = end
		}

		pen += gbuf.AdvanceWidth
		prev, hasPrv = idx, true
	}
	return o, nil
}

var zero fixed.Point26_6

// drawContour calls draw for each moveto, lineto and quadratic spline of a
// TrueType contour. Two consecutive off-curve points imply an on-curve point
// half way between them.
func drawContour(ps []truetype.Point, draw func(cmd rune, p0, p1 fixed.Point26_6)) {
	if len(ps) == 0 {
		return
	}

	start := fixed.Point26_6{X: ps[0].X, Y: ps[0].Y}
	var others []truetype.Point
	if ps[0].Flags&1 != 0 {
		others = ps[1:]
	} else {
		last := fixed.Point26_6{X: ps[len(ps)-1].X, Y: ps[len(ps)-1].Y}
		if ps[len(ps)-1].Flags&1 != 0 {
			start = last
			others = ps[:len(ps)-1]
		} else {
			start = fixed.Point26_6{
				X: (start.X + last.X) / 2,
				Y: (start.Y + last.Y) / 2,
			}
			others = ps
		}
	}
	draw('M', start, zero)
	q0, on0 := start, true
	for _, p := range others {
		q := fixed.Point26_6{X: p.X, Y: p.Y}
		on := p.Flags&1 != 0
		if on {
			if on0 {
				draw('L', q, zero)
			} else {
				draw('Q', q0, q)
			}
		} else if !on0 {
			mid := fixed.Point26_6{
				X: (q0.X + q.X) / 2,
				Y: (q0.Y + q.Y) / 2,
			}
			draw('Q', q0, mid)
		}
		q0, on0 = q, on
	}
	if on0 {
		draw('L', start, zero)
	} else {
		draw('Q', q0, start)
	}
}
