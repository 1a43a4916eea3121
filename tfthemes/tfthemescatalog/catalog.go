package tfthemescatalog

import (
	"fmt"
	"strings"

	"oss.terrastruct.com/tefcha/lib/color"
	"oss.terrastruct.com/tefcha/tfthemes"
)

var Catalog = []tfthemes.Config{
	Blue,
	Grey,
	Dark,
}

func Find(id int64) (*tfthemes.Config, bool) {
	for _, theme := range Catalog {
		if theme.ID == id {
			return theme.Copy(), true
		}
	}
	return nil, false
}

// FindByName matches case insensitively.
func FindByName(name string) (*tfthemes.Config, bool) {
	for _, theme := range Catalog {
		if strings.EqualFold(theme.Name, name) {
			return theme.Copy(), true
		}
	}
	return nil, false
}

func CLIString() string {
	var s strings.Builder
	for _, t := range Catalog {
		s.WriteString(fmt.Sprintf("- %s: %d\n", t.Name, t.ID))
	}
	return s.String()
}

type palette struct {
	// Primary strokes nodes and edges.
	Primary    string
	Fill       string
	Ink        string
	Frame      string
	Background string
}

func mustDarken(c string) string {
	d, err := color.Darken(c)
	if err != nil {
		panic(err)
	}
	return d
}

func newTheme(id int64, name string, p palette) tfthemes.Config {
	labelInk := mustDarken(p.Primary)
	if dark, err := color.IsDark(p.Background); err == nil && dark {
		labelInk = p.Ink
	}
	return tfthemes.Config{
		ID:   id,
		Name: name,
		Flowchart: tfthemes.Flowchart{
			MarginX:         16,
			MarginY:         16,
			BackgroundColor: p.Background,
		},
		Text: tfthemes.Style{Attrs: map[string]string{
			"font-size": "14px",
			"fill":      p.Ink,
		}},
		Label: tfthemes.Style{Attrs: map[string]string{
			"font-size": "12px",
			"fill":      labelInk,
		}},
		Rect: tfthemes.Style{Attrs: map[string]string{
			"rx":           "3",
			"ry":           "3",
			"stroke":       p.Primary,
			"stroke-width": "3px",
			"fill":         p.Fill,
		}},
		Frame: tfthemes.Style{Attrs: map[string]string{
			"stroke":           p.Frame,
			"stroke-width":     "2px",
			"stroke-dasharray": "2",
			"fill":             "none",
		}},
		Diamond: tfthemes.Style{Attrs: map[string]string{
			"stroke":       p.Primary,
			"stroke-width": "3px",
			"fill":         p.Fill,
		}},
		Path: tfthemes.Style{Attrs: map[string]string{
			"stroke":       mustDarken(p.Primary),
			"stroke-width": "2px",
			"fill":         "none",
		}},
		ArrowHead: tfthemes.ArrowHead{
			Size: 12,
			Attrs: map[string]string{
				"fill": mustDarken(p.Primary),
			},
		},
		Layout: map[string]interface{}{
			"indentWidth": 4,
			"rowGap":      20,
			"colGap":      40,
			"padding":     8,
		},
	}
}
