// textmeasure measures text against the glyph outlines it will be drawn with.
package textmeasure

import (
	"oss.terrastruct.com/tefcha/lib/go2"
	"oss.terrastruct.com/tefcha/lib/syncmap"
	"oss.terrastruct.com/tefcha/tffonts"
	"oss.terrastruct.com/tefcha/tftarget"
	"oss.terrastruct.com/tefcha/tfthemes"
)

type lineKey struct {
	line     string
	fontSize float64
}

// Ruler is safe for concurrent use as long as its font is. Line widths are
// cached for the lifetime of the Ruler, so a Ruler is scoped to one render.
type Ruler struct {
	font   *tffonts.Font
	widths syncmap.SyncMap[lineKey, float64]
}

func NewRuler(font *tffonts.Font) *Ruler {
	return &Ruler{
		font:   font,
		widths: syncmap.New[lineKey, float64](),
	}
}

// Measure splits text into lines and returns the widest right ink edge and
// font-size times the number of lines. attrs must carry a font-size in px.
func (r *Ruler) Measure(text string, attrs map[string]string) (tftarget.TextSize, error) {
	fontSize, err := tfthemes.ParseFontSize(attrs)
	if err != nil {
		return tftarget.TextSize{}, err
	}

	lines := tftarget.SplitLines(text)
	var w float64
	for _, line := range lines {
		lw, err := r.lineWidth(line, fontSize)
		if err != nil {
			return tftarget.TextSize{}, err
		}
		w = go2.Max(w, lw)
	}
	return tftarget.TextSize{
		W: w,
		H: float64(len(lines)) * fontSize,
	}, nil
}

func (r *Ruler) lineWidth(line string, fontSize float64) (float64, error) {
	k := lineKey{line, fontSize}
	if w, ok := r.widths.Lookup(k); ok {
		return w, nil
	}
	o, err := r.font.Outline(line, 0, 0, fontSize)
	if err != nil {
		return 0, err
	}
	w, _ := r.widths.LoadOrStore(k, o.X2())
	return w, nil
}

// CachedLines returns the number of distinct line widths r has computed.
func (r *Ruler) CachedLines() int {
	return r.widths.Len()
}

// MeasureFunc adapts r to the signature layout engines call back into.
func (r *Ruler) MeasureFunc() tftarget.MeasureTextFunc {
	return r.Measure
}
