// tfthemes defines the style configuration shared by layout engines and renderers.
//
// Attribute maps are copied verbatim onto the generated SVG elements, so any
// presentation attribute SVG understands may appear in them.
package tfthemes

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"oss.terrastruct.com/tefcha/lib/color"
)

const FontSizeUnit = "px"

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrFontSizeUnit  = errors.New(`font-size of text and label must be specified in "px"`)
)

type Config struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Flowchart Flowchart `json:"flowchart"`
	Text      Style     `json:"text"`
	Label     Style     `json:"label"`
	Rect      Style     `json:"rect"`
	Frame     Style     `json:"frame"`
	Diamond   Style     `json:"diamond"`
	Path      Style     `json:"path"`
	ArrowHead ArrowHead `json:"arrowHead"`
	// Layout is passed through untouched to the layout engine.
	Layout map[string]interface{} `json:"layout,omitempty"`
}

type Flowchart struct {
	MarginX         float64 `json:"marginX"`
	MarginY         float64 `json:"marginY"`
	BackgroundColor string  `json:"backgroundColor"`
}

type Style struct {
	Attrs map[string]string `json:"attrs"`
}

type ArrowHead struct {
	Size  float64           `json:"size"`
	Attrs map[string]string `json:"attrs"`
}

// TextAttrs returns the attributes of the label block when isLabel, else the text block.
func (c *Config) TextAttrs(isLabel bool) map[string]string {
	if isLabel {
		return c.Label.Attrs
	}
	return c.Text.Attrs
}

func (c *Config) HasBackground() bool {
	return !color.IsNone(c.Flowchart.BackgroundColor)
}

// ParseFontSize reads the required font-size attribute, e.g. "14px".
func ParseFontSize(attrs map[string]string) (float64, error) {
	v, ok := attrs["font-size"]
	if !ok {
		return 0, fmt.Errorf("%w: font-size is missing", ErrFontSizeUnit)
	}
	if !strings.HasSuffix(v, FontSizeUnit) {
		return 0, fmt.Errorf("%w: got %q", ErrFontSizeUnit, v)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, FontSizeUnit)), 64)
	if err != nil || f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: got %q", ErrFontSizeUnit, v)
	}
	return f, nil
}

type ValidationError struct {
	Err error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidConfig, e.Err)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Validate reports every problem with c at once. The returned error matches
// ErrInvalidConfig and each underlying cause with errors.Is.
func (c *Config) Validate() error {
	var err error
	if _, ferr := ParseFontSize(c.Text.Attrs); ferr != nil {
		err = multierr.Append(err, fmt.Errorf("text: %w", ferr))
	}
	if _, ferr := ParseFontSize(c.Label.Attrs); ferr != nil {
		err = multierr.Append(err, fmt.Errorf("label: %w", ferr))
	}
	if cerr := color.Validate(c.Flowchart.BackgroundColor); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("flowchart.backgroundColor: %w", cerr))
	}
	if c.Flowchart.MarginX < 0 || c.Flowchart.MarginY < 0 {
		err = multierr.Append(err, fmt.Errorf("flowchart margins must not be negative, got (%v, %v)", c.Flowchart.MarginX, c.Flowchart.MarginY))
	}
	if !(c.ArrowHead.Size > 0) {
		err = multierr.Append(err, fmt.Errorf("arrowHead.size must be positive, got %v", c.ArrowHead.Size))
	}
	if err != nil {
		return ValidationError{Err: err}
	}
	return nil
}

func copyAttrs(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStyle(s Style) Style {
	return Style{Attrs: copyAttrs(s.Attrs)}
}

func (c *Config) Copy() *Config {
	out := *c
	out.Text = copyStyle(c.Text)
	out.Label = copyStyle(c.Label)
	out.Rect = copyStyle(c.Rect)
	out.Frame = copyStyle(c.Frame)
	out.Diamond = copyStyle(c.Diamond)
	out.Path = copyStyle(c.Path)
	out.ArrowHead.Attrs = copyAttrs(c.ArrowHead.Attrs)
	if c.Layout != nil {
		out.Layout = copyLayout(c.Layout)
	}
	return &out
}

func copyLayout(m map[string]interface{}) map[string]interface{} {
	// Round trip through JSON for a deep copy of arbitrary nested values.
	b, err := json.Marshal(m)
	if err == nil {
		var layout map[string]interface{}
		if json.Unmarshal(b, &layout) == nil {
			return layout
		}
	}
	// Values JSON cannot encode, e.g. funcs, are shared with m.
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ApplyJSON returns a copy of c with the fields present in b overriding it.
// Attribute maps are merged key by key.
func (c *Config) ApplyJSON(b []byte) (*Config, error) {
	out := c.Copy()
	if err := json.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("failed to parse config overrides: %w", err)
	}
	return out, nil
}
