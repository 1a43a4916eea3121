// Package tftarget defines the positioned shape tree handed from a layout engine
// to a renderer.
//
// The set of shape kinds is closed. Every concrete shape embeds Base, which
// carries the unexported marker method. An outside type can still satisfy
// Shape by embedding Base, so renderers switch on the concrete type and must
// return ErrUnknownShape from the default branch.
package tftarget

import (
	"errors"
	"fmt"
	"strings"
)

// LineBreak is the two character sequence that separates lines in text content.
const LineBreak = `\n`

var (
	ErrUnknownShape   = errors.New("unknown shape kind")
	ErrInvalidPathCmd = errors.New("invalid path command")
)

type Kind string

const (
	KindGroup   Kind = "group"
	KindText    Kind = "text"
	KindRect    Kind = "rect"
	KindFrame   Kind = "frame"
	KindDiamond Kind = "diamond"
	KindPath    Kind = "path"
	KindPoint   Kind = "point"
)

var Kinds = []Kind{
	KindGroup,
	KindText,
	KindRect,
	KindFrame,
	KindDiamond,
	KindPath,
	KindPoint,
}

type Shape interface {
	Kind() Kind
	// Pos is relative to the parent group.
	Pos() (x, y float64)
	shape()
}

type Base struct {
	X float64
	Y float64
}

func (b Base) Pos() (float64, float64) {
	return b.X, b.Y
}

func (Base) shape() {}

type Group struct {
	Base
	Children []Shape
}

func NewGroup(x, y float64, children ...Shape) *Group {
	return &Group{Base: Base{X: x, Y: y}, Children: children}
}

func (*Group) Kind() Kind { return KindGroup }

type Text struct {
	Base
	Content string
	// IsLabel selects the label style block instead of the text one.
	IsLabel bool
}

func NewText(x, y float64, content string, isLabel bool) *Text {
	return &Text{Base: Base{X: x, Y: y}, Content: content, IsLabel: isLabel}
}

func (*Text) Kind() Kind { return KindText }

func (t *Text) Lines() []string {
	return SplitLines(t.Content)
}

type Rect struct {
	Base
	W float64
	H float64
}

func NewRect(x, y, w, h float64) *Rect {
	return &Rect{Base: Base{X: x, Y: y}, W: w, H: h}
}

func (*Rect) Kind() Kind { return KindRect }

// Frame is drawn like a Rect but always beneath every node.
type Frame struct {
	Base
	W float64
	H float64
}

func NewFrame(x, y, w, h float64) *Frame {
	return &Frame{Base: Base{X: x, Y: y}, W: w, H: h}
}

func (*Frame) Kind() Kind { return KindFrame }

type Diamond struct {
	Base
	W float64
	H float64
}

func NewDiamond(x, y, w, h float64) *Diamond {
	return &Diamond{Base: Base{X: x, Y: y}, W: w, H: h}
}

func (*Diamond) Kind() Kind { return KindDiamond }

type Path struct {
	Base
	Cmds    []PathCmd
	IsArrow bool
}

func NewPath(x, y float64, isArrow bool, cmds ...PathCmd) *Path {
	return &Path{Base: Base{X: x, Y: y}, Cmds: cmds, IsArrow: isArrow}
}

func (*Path) Kind() Kind { return KindPath }

// Point is a layout anchor. It is never drawn.
type Point struct {
	Base
}

func NewPoint(x, y float64) *Point {
	return &Point{Base: Base{X: x, Y: y}}
}

func (*Point) Kind() Kind { return KindPoint }

// Flowchart is the result of a layout pass. Shapes has already been translated so
// that its content starts at the configured margins; W and H exclude the margins.
type Flowchart struct {
	Shapes Shape
	W      float64
	H      float64
}

type TextSize struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// MeasureTextFunc measures text styled by attrs against real glyph metrics.
type MeasureTextFunc func(text string, attrs map[string]string) (TextSize, error)

func SplitLines(s string) []string {
	return strings.Split(s, LineBreak)
}

// Walk calls fn for s and every descendant in depth first order with the
// absolute position of each shape. Returning an error stops the walk.
func Walk(s Shape, offsetX, offsetY float64, fn func(s Shape, x, y float64) error) error {
	x, y := s.Pos()
	x += offsetX
	y += offsetY
	if err := fn(s, x, y); err != nil {
		return err
	}
	if g, ok := s.(*Group); ok {
		for _, c := range g.Children {
			if err := Walk(c, x, y, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Translate shifts s, and so its entire subtree, by (dx, dy).
func Translate(s Shape, dx, dy float64) error {
	switch s := s.(type) {
	case *Group:
		s.X += dx
		s.Y += dy
	case *Text:
		s.X += dx
		s.Y += dy
	case *Rect:
		s.X += dx
		s.Y += dy
	case *Frame:
		s.X += dx
		s.Y += dy
	case *Diamond:
		s.X += dx
		s.Y += dy
	case *Path:
		s.X += dx
		s.Y += dy
	case *Point:
		s.X += dx
		s.Y += dy
	default:
		return fmt.Errorf("%w of type %T", ErrUnknownShape, s)
	}
	return nil
}
