package tftarget

import (
	"encoding/json"
	"fmt"
)

type wireShape struct {
	Type     Kind         `json:"type"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Children []*wireShape `json:"children,omitempty"`
	Content  string       `json:"content,omitempty"`
	IsLabel  bool         `json:"isLabel,omitempty"`
	W        float64      `json:"w,omitempty"`
	H        float64      `json:"h,omitempty"`
	Cmds     []PathCmd    `json:"cmds,omitempty"`
	IsArrow  bool         `json:"isArrow,omitempty"`
}

type wireFlowchart struct {
	Shapes *wireShape `json:"shapes"`
	W      float64    `json:"w"`
	H      float64    `json:"h"`
}

func SerializeShape(s Shape) ([]byte, error) {
	ws, err := toWire(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ws)
}

func DeserializeShape(b []byte) (Shape, error) {
	var ws wireShape
	if err := json.Unmarshal(b, &ws); err != nil {
		return nil, err
	}
	return fromWire(&ws)
}

func (f Flowchart) MarshalJSON() ([]byte, error) {
	wf := wireFlowchart{W: f.W, H: f.H}
	if f.Shapes != nil {
		ws, err := toWire(f.Shapes)
		if err != nil {
			return nil, err
		}
		wf.Shapes = ws
	}
	return json.Marshal(wf)
}

func (f *Flowchart) UnmarshalJSON(b []byte) error {
	var wf wireFlowchart
	if err := json.Unmarshal(b, &wf); err != nil {
		return err
	}
	if wf.Shapes == nil {
		return fmt.Errorf("flowchart has no shapes")
	}
	s, err := fromWire(wf.Shapes)
	if err != nil {
		return err
	}
	*f = Flowchart{Shapes: s, W: wf.W, H: wf.H}
	return nil
}

func toWire(s Shape) (*wireShape, error) {
	ws := &wireShape{}
	ws.X, ws.Y = s.Pos()
	switch s := s.(type) {
	case *Group:
		ws.Type = KindGroup
		for _, c := range s.Children {
			wc, err := toWire(c)
			if err != nil {
				return nil, err
			}
			ws.Children = append(ws.Children, wc)
		}
	case *Text:
		ws.Type = KindText
		ws.Content = s.Content
		ws.IsLabel = s.IsLabel
	case *Rect:
		ws.Type = KindRect
		ws.W, ws.H = s.W, s.H
	case *Frame:
		ws.Type = KindFrame
		ws.W, ws.H = s.W, s.H
	case *Diamond:
		ws.Type = KindDiamond
		ws.W, ws.H = s.W, s.H
	case *Path:
		ws.Type = KindPath
		ws.Cmds = s.Cmds
		ws.IsArrow = s.IsArrow
	case *Point:
		ws.Type = KindPoint
	default:
		return nil, fmt.Errorf("%w of type %T", ErrUnknownShape, s)
	}
	return ws, nil
}

func fromWire(ws *wireShape) (Shape, error) {
	if ws == nil {
		return nil, fmt.Errorf("%w: null shape", ErrUnknownShape)
	}
	base := Base{X: ws.X, Y: ws.Y}
	switch ws.Type {
	case KindGroup:
		g := &Group{Base: base, Children: make([]Shape, 0, len(ws.Children))}
		for _, wc := range ws.Children {
			c, err := fromWire(wc)
			if err != nil {
				return nil, err
			}
			g.Children = append(g.Children, c)
		}
		return g, nil
	case KindText:
		return &Text{Base: base, Content: ws.Content, IsLabel: ws.IsLabel}, nil
	case KindRect:
		return &Rect{Base: base, W: ws.W, H: ws.H}, nil
	case KindFrame:
		return &Frame{Base: base, W: ws.W, H: ws.H}, nil
	case KindDiamond:
		return &Diamond{Base: base, W: ws.W, H: ws.H}, nil
	case KindPath:
		return &Path{Base: base, Cmds: ws.Cmds, IsArrow: ws.IsArrow}, nil
	case KindPoint:
		return &Point{Base: base}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownShape, ws.Type)
}
