// tfsvg renders a positioned shape tree into a self contained SVG document.
//
// Text is drawn as traced glyph outlines instead of <text> elements so the
// output looks the same wherever it is displayed.
package tfsvg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cdr.dev/slog"

	"oss.terrastruct.com/tefcha/lib/geo"
	"oss.terrastruct.com/tefcha/lib/log"
	"oss.terrastruct.com/tefcha/lib/svg"
	"oss.terrastruct.com/tefcha/lib/textmeasure"
	"oss.terrastruct.com/tefcha/tffonts"
	"oss.terrastruct.com/tefcha/tftarget"
	"oss.terrastruct.com/tefcha/tfthemes"
)

const (
	ArrowHeadID = "arrow-head"
	XMLNS       = "http://www.w3.org/2000/svg"

	// GlyphPrecision is the number of decimals kept in glyph outline coordinates.
	GlyphPrecision = 2
)

// LayoutFunc positions the flowchart described by src. It must call measure for
// every piece of text whose size influences the layout.
type LayoutFunc func(ctx context.Context, src string, cfg *tfthemes.Config, measure tftarget.MeasureTextFunc) (*tftarget.Flowchart, error)

// Renderer holds no state between renders. Every render measures text with
// its own Ruler. It is safe for concurrent use if its layout function is.
type Renderer struct {
	cfg    *tfthemes.Config
	font   *tffonts.Font
	layout LayoutFunc

	// measured is called with the Ruler of every render once layout returns.
	// Only tests set it.
	measured func(*textmeasure.Ruler)
}

func NewRenderer(cfg *tfthemes.Config, font *tffonts.Font, layout LayoutFunc) *Renderer {
	return &Renderer{
		cfg:    cfg,
		font:   font,
		layout: layout,
	}
}

func (r *Renderer) MeasureText(text string, attrs map[string]string) (tftarget.TextSize, error) {
	return textmeasure.NewRuler(r.font).Measure(text, attrs)
}

type layers struct {
	background *svg.Element
	frame      *svg.Element
	path       *svg.Element
	node       *svg.Element
	text       *svg.Element
}

func newLayers() *layers {
	return &layers{
		background: svg.NewElement(svg.TagGroup, nil),
		frame:      svg.NewElement(svg.TagGroup, nil),
		path:       svg.NewElement(svg.TagGroup, nil),
		node:       svg.NewElement(svg.TagGroup, nil),
		text:       svg.NewElement(svg.TagGroup, nil),
	}
}

// ordered returns the layers bottom to top. Edges sit under nodes and nodes under text.
func (ls *layers) ordered() []*svg.Element {
	return []*svg.Element{ls.background, ls.frame, ls.path, ls.node, ls.text}
}

// Render lays out src and draws it. Errors from the layout function are
// returned as is.
func (r *Renderer) Render(ctx context.Context, src string) (*svg.Element, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	doc := svg.NewElement(svg.TagSVG, svg.NewAttrs().
		Set("version", "1.1").
		Set("xmlns", XMLNS),
	)
	doc.Append(r.arrowHeadDef())
	ls := newLayers()

	ruler := textmeasure.NewRuler(r.font)
	fc, err := r.layout(ctx, src, r.cfg, ruler.MeasureFunc())
	if r.measured != nil {
		r.measured(ruler)
	}
	if err != nil {
		return nil, err
	}
	if fc == nil || fc.Shapes == nil {
		return nil, errors.New("layout produced no shapes")
	}

	if err := r.renderShape(ls, fc.Shapes, 0, 0); err != nil {
		return nil, err
	}
	for _, l := range ls.ordered() {
		doc.Append(l)
	}

	// The layout already moved the content to start at the margins.
	width := fc.W + r.cfg.Flowchart.MarginX*2
	height := fc.H + r.cfg.Flowchart.MarginY*2
	w := svg.FormatNum(width, -1)
	h := svg.FormatNum(height, -1)
	doc.SetAttribute("width", w)
	doc.SetAttribute("height", h)
	doc.SetAttribute("viewBox", fmt.Sprintf("0 0 %s %s", w, h))

	if r.cfg.HasBackground() {
		ls.background.Prepend(svg.NewElement(svg.TagRect, svg.NewAttrs().
			SetNum("x", 0).
			SetNum("y", 0).
			Set("width", w).
			Set("height", h).
			Set("fill", r.cfg.Flowchart.BackgroundColor),
		))
	}

	log.Debug(ctx, "rendered flowchart", slog.F("width", width), slog.F("height", height), slog.F("theme", r.cfg.Name))
	return doc, nil
}

func (r *Renderer) RenderBytes(ctx context.Context, src string) ([]byte, error) {
	doc, err := r.Render(ctx, src)
	if err != nil {
		return nil, err
	}
	return []byte(doc.String()), nil
}

func (r *Renderer) arrowHeadDef() *svg.Element {
	size := r.cfg.ArrowHead.Size
	return svg.NewElement(svg.TagDefs, nil,
		svg.NewElement(svg.TagMarker, svg.NewAttrs().
			Set("id", ArrowHeadID).
			Set("markerUnits", "userSpaceOnUse").
			SetNum("markerWidth", size).
			SetNum("markerHeight", size*2).
			Set("viewBox", "0 0 10 10").
			Set("refX", "10").
			Set("refY", "5").
			Set("orient", "auto-start-reverse"),
			svg.NewElement(svg.TagPolygon, svg.NewAttrs().
				Set("points", "0,0 0,10 10,5").
				Set("class", "arrow-head").
				Merge(r.cfg.ArrowHead.Attrs),
			),
		),
	)
}

// renderShape draws s and its descendants at s's position plus (offsetX, offsetY).
func (r *Renderer) renderShape(ls *layers, s tftarget.Shape, offsetX, offsetY float64) error {
	if s == nil {
		return fmt.Errorf("%w: nil", tftarget.ErrUnknownShape)
	}
	sx, sy := s.Pos()
	x := offsetX + sx
	y := offsetY + sy

	switch s := s.(type) {
	case *tftarget.Group:
		for _, child := range s.Children {
			if err := r.renderShape(ls, child, x, y); err != nil {
				return err
			}
		}
	case *tftarget.Text:
		text, err := r.renderText(x, y, s)
		if err != nil {
			return err
		}
		ls.text.Append(text)
	case *tftarget.Path:
		path, err := r.renderPath(x, y, s)
		if err != nil {
			return err
		}
		ls.path.Append(path)
	case *tftarget.Rect:
		ls.node.Append(renderRect(x, y, s.W, s.H, r.cfg.Rect.Attrs))
	case *tftarget.Frame:
		ls.frame.Append(renderRect(x, y, s.W, s.H, r.cfg.Frame.Attrs))
	case *tftarget.Diamond:
		ls.node.Append(r.renderDiamond(x, y, s))
	case *tftarget.Point:
	default:
		return fmt.Errorf("%w of type %T", tftarget.ErrUnknownShape, s)
	}
	return nil
}

func (r *Renderer) renderText(x, y float64, t *tftarget.Text) (svg.RawText, error) {
	attrs := r.cfg.TextAttrs(t.IsLabel)
	fontSize, err := tfthemes.ParseFontSize(attrs)
	if err != nil {
		return "", err
	}
	style := svg.NewAttrs().Merge(attrs)
	ascender := r.font.AscenderOffset(fontSize)

	sb := &strings.Builder{}
	for i, line := range t.Lines() {
		o, err := r.font.Outline(line, x, y+float64(i)*fontSize+ascender, fontSize)
		if err != nil {
			return "", err
		}
		sb.WriteString(svg.InjectAttrs(o.ToSVG(GlyphPrecision), svg.TagPath, style))
	}
	return svg.RawText(sb.String()), nil
}

func renderRect(x, y, w, h float64, style map[string]string) *svg.Element {
	return svg.NewElement(svg.TagRect, svg.NewAttrs().
		SetNum("x", x).
		SetNum("y", y).
		SetNum("width", w).
		SetNum("height", h).
		Merge(style),
	)
}

func (r *Renderer) renderDiamond(x, y float64, d *tftarget.Diamond) *svg.Element {
	box := geo.NewBox(geo.NewPoint(x, y), d.W, d.H)
	points := make([]string, 0, 4)
	for _, p := range box.EdgeMidpoints() {
		points = append(points, svg.FormatNum(p.X, -1)+","+svg.FormatNum(p.Y, -1))
	}
	return svg.NewElement(svg.TagPolygon, svg.NewAttrs().
		Set("points", strings.Join(points, " ")).
		Merge(r.cfg.Diamond.Attrs),
	)
}

func (r *Renderer) renderPath(x, y float64, p *tftarget.Path) (*svg.Element, error) {
	pc := svg.NewPathContext(-1)
	pc.StartAt(x, y)
	for _, cmd := range p.Cmds {
		if err := cmd.Validate(); err != nil {
			return nil, err
		}
		pc.Relative(string(cmd.Verb), cmd.Args...)
	}

	attrs := svg.NewAttrs().Set("d", pc.PathData())
	if p.IsArrow {
		attrs.Set("marker-end", fmt.Sprintf("url(#%s)", ArrowHeadID))
	}
	return svg.NewElement(svg.TagPath, attrs.Merge(r.cfg.Path.Attrs)), nil
}
