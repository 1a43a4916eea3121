// tfstatic is a layout engine for flowcharts that are already positioned.
//
// The source is JSON. A flowchart object ({"shapes": ..., "w": ..., "h": ...})
// is returned as is. A bare root shape, or a flowchart object missing w or h,
// is measured and moved so that its content starts at the configured margins.
package tfstatic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cdr.dev/slog"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/tefcha/lib/geo"
	"oss.terrastruct.com/tefcha/lib/log"
	"oss.terrastruct.com/tefcha/tftarget"
	"oss.terrastruct.com/tefcha/tfthemes"
)

const Name = "static"

func Layout(ctx context.Context, src string, cfg *tfthemes.Config, measure tftarget.MeasureTextFunc) (_ *tftarget.Flowchart, err error) {
	defer xdefer.Errorf(&err, "static layout failed")

	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errors.New("empty source")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(src), &probe); err != nil {
		return nil, err
	}
	var root tftarget.Shape
	if _, ok := probe["shapes"]; ok {
		var fc tftarget.Flowchart
		if err := json.Unmarshal([]byte(src), &fc); err != nil {
			return nil, err
		}
		_, hasW := probe["w"]
		_, hasH := probe["h"]
		if hasW && hasH {
			log.Debug(ctx, "using positioned flowchart", slog.F("w", fc.W), slog.F("h", fc.H))
			return &fc, nil
		}
		root = fc.Shapes
	} else {
		root, err = tftarget.DeserializeShape([]byte(src))
		if err != nil {
			return nil, err
		}
	}
	bbox, err := Extent(root, cfg, measure)
	if err != nil {
		return nil, err
	}

	fc := &tftarget.Flowchart{Shapes: root}
	if !bbox.IsEmpty() {
		fc.W = bbox.Width()
		fc.H = bbox.Height()
		err = tftarget.Translate(root, cfg.Flowchart.MarginX-bbox.X1, cfg.Flowchart.MarginY-bbox.Y1)
		if err != nil {
			return nil, err
		}
	}
	log.Debug(ctx, "laid out flowchart", slog.F("w", fc.W), slog.F("h", fc.H))
	return fc, nil
}

// Extent is the bounding box of everything drawn for s, in the coordinates of
// s's parent. Text is sized with measure.
func Extent(s tftarget.Shape, cfg *tfthemes.Config, measure tftarget.MeasureTextFunc) (geo.BoundingBox, error) {
	var bbox geo.BoundingBox
	addBox := func(x, y, w, h float64) {
		bbox.AddPoint(x, y)
		bbox.AddPoint(x+w, y+h)
	}
	err := tftarget.Walk(s, 0, 0, func(s tftarget.Shape, x, y float64) error {
		switch s := s.(type) {
		case *tftarget.Group:
		case *tftarget.Text:
			size, err := measure(s.Content, cfg.TextAttrs(s.IsLabel))
			if err != nil {
				return err
			}
			addBox(x, y, size.W, size.H)
		case *tftarget.Rect:
			addBox(x, y, s.W, s.H)
		case *tftarget.Frame:
			addBox(x, y, s.W, s.H)
		case *tftarget.Diamond:
			addBox(x, y, s.W, s.H)
		case *tftarget.Path:
			for _, p := range s.Points() {
				bbox.AddPoint(x+p.X, y+p.Y)
			}
		case *tftarget.Point:
			bbox.AddPoint(x, y)
		default:
			return fmt.Errorf("%w of type %T", tftarget.ErrUnknownShape, s)
		}
		return nil
	})
	return bbox, err
}
