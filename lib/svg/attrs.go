package svg

import (
	"sort"
	"strings"
)

// Attrs is a string to string attribute map that serializes in insertion order.
// Setting an existing key overwrites its value in place.
type Attrs struct {
	keys   []string
	values map[string]string
}

func NewAttrs() *Attrs {
	return &Attrs{
		values: make(map[string]string),
	}
}

// Set inserts or overwrites key. It returns a so calls can be chained.
func (a *Attrs) Set(key, value string) *Attrs {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
	return a
}

// SetNum is Set with value formatted by FormatNum.
func (a *Attrs) SetNum(key string, value float64) *Attrs {
	return a.Set(key, FormatNum(value, -1))
}

func (a *Attrs) Get(key string) (string, bool) {
	v, ok := a.values[key]
	return v, ok
}

func (a *Attrs) Len() int {
	return len(a.keys)
}

func (a *Attrs) Keys() []string {
	return append([]string(nil), a.keys...)
}

// Merge sets every entry of m. Keys of m are visited in sorted order so output is stable.
func (a *Attrs) Merge(m map[string]string) *Attrs {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.Set(k, m[k])
	}
	return a
}

func (a *Attrs) Copy() *Attrs {
	cp := NewAttrs()
	for _, k := range a.keys {
		cp.Set(k, a.values[k])
	}
	return cp
}

// String renders the space separated key="value" pairs with both sides escaped.
func (a *Attrs) String() string {
	if a == nil {
		return ""
	}
	sb := &strings.Builder{}
	a.writeTo(sb)
	return sb.String()
}

func (a *Attrs) writeTo(sb *strings.Builder) {
	for i, k := range a.keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(EscapeText(k))
		sb.WriteString(`="`)
		sb.WriteString(EscapeText(a.values[k]))
		sb.WriteByte('"')
	}
}
