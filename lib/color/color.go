package color

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

const (
	Empty       = ""
	None        = "none"
	Transparent = "transparent"
)

// IsNone reports whether c is one of the exact values meaning "paint nothing".
func IsNone(c string) bool {
	switch c {
	case Empty, None, Transparent:
		return true
	}
	return false
}

// Validate returns an error if c is neither a "no color" value nor a parseable CSS color.
func Validate(c string) error {
	if IsNone(c) {
		return nil
	}
	_, err := csscolorparser.Parse(c)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", c, err)
	}
	return nil
}

// Darken decreases the luminance of a CSS color by 10%.
func Darken(colorString string) (string, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return "", err
	}
	h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	return colorful.Hsl(h, s, l-.1).Clamped().Hex(), nil
}

func Luminance(colorString string) (float64, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return 0, err
	}

	l := float64(
		float64(0.299)*float64(c.R) +
			float64(0.587)*float64(c.G) +
			float64(0.114)*float64(c.B),
	)
	return l, nil
}

// IsDark reports whether text drawn over colorString should be light.
func IsDark(colorString string) (bool, error) {
	l, err := Luminance(colorString)
	if err != nil {
		return false, err
	}
	return l < .5, nil
}
