// Package svg is a minimal builder for SVG markup.
//
// Markup is assembled as a tree of Elements whose children are other Elements or one of
// two text fragment kinds: RawText, written verbatim, and EscapedText, written with
// EscapeText applied. Anything that may originate from diagram source must go through
// EscapedText or an attribute value.
package svg

import "strings"

type Tag string

const (
	TagSVG     Tag = "svg"
	TagGroup   Tag = "g"
	TagDefs    Tag = "defs"
	TagMarker  Tag = "marker"
	TagPath    Tag = "path"
	TagPolygon Tag = "polygon"
	TagRect    Tag = "rect"
)

// Node is implemented by *Element, RawText and EscapedText only.
type Node interface {
	writeTo(sb *strings.Builder)
}

// RawText is serialized verbatim. Only use it for markup that is already safe,
// such as glyph outlines generated from font data.
type RawText string

func (t RawText) writeTo(sb *strings.Builder) {
	sb.WriteString(string(t))
}

// EscapedText is serialized with EscapeText applied.
type EscapedText string

func (t EscapedText) writeTo(sb *strings.Builder) {
	sb.WriteString(EscapeText(string(t)))
}

type Element struct {
	tag      Tag
	attrs    *Attrs
	children []Node
}

// NewElement creates an element. tag must be one of the Tag constants; it is not checked.
func NewElement(tag Tag, attrs *Attrs, children ...Node) *Element {
	if attrs == nil {
		attrs = NewAttrs()
	}
	return &Element{
		tag:      tag,
		attrs:    attrs,
		children: children,
	}
}

func (el *Element) Tag() Tag {
	return el.tag
}

func (el *Element) Append(child Node) {
	el.children = append(el.children, child)
}

// Prepend inserts child before every existing child.
func (el *Element) Prepend(child Node) {
	el.children = append([]Node{child}, el.children...)
}

// SetAttribute inserts or overwrites an attribute. Last write wins.
func (el *Element) SetAttribute(key, value string) {
	el.attrs.Set(key, value)
}

func (el *Element) Attr(key string) (string, bool) {
	return el.attrs.Get(key)
}

func (el *Element) Children() []Node {
	return append([]Node(nil), el.children...)
}

// String serializes the element and its whole subtree.
func (el *Element) String() string {
	sb := &strings.Builder{}
	el.writeTo(sb)
	return sb.String()
}

func (el *Element) writeTo(sb *strings.Builder) {
	sb.WriteByte('<')
	sb.WriteString(string(el.tag))
	if el.attrs.Len() > 0 {
		sb.WriteByte(' ')
		el.attrs.writeTo(sb)
	}
	sb.WriteByte('>')
	for _, child := range el.children {
		child.writeTo(sb)
	}
	sb.WriteString("</")
	sb.WriteString(string(el.tag))
	sb.WriteByte('>')
}

// InjectAttrs inserts attrs right after the opening token of tag in markup,
// e.g. `<path d="M0 0"/>` becomes `<path fill="red" d="M0 0"/>`.
// Only the first occurrence is rewritten.
func InjectAttrs(markup string, tag Tag, attrs *Attrs) string {
	if attrs.Len() == 0 {
		return markup
	}
	open := "<" + string(tag)
	return strings.Replace(markup, open, open+" "+attrs.String(), 1)
}
