package tflib_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/tefcha/lib/log"
	"oss.terrastruct.com/tefcha/tflib"
	"oss.terrastruct.com/tefcha/tftarget"
	"oss.terrastruct.com/tefcha/tfthemes"
	"oss.terrastruct.com/tefcha/tfthemes/tfthemescatalog"
)

const src = `{"type": "group", "children": [
	{"type": "rect", "x": 0, "y": 0, "w": 100, "h": 50},
	{"type": "text", "x": 10, "y": 10, "content": "start"}
]}`

func TestRenderDefaults(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	b, err := tflib.Render(ctx, src, nil)
	require.NoError(t, err)

	svg := string(b)
	assert.True(t, strings.HasPrefix(svg, `<svg version="1.1" xmlns="http://www.w3.org/2000/svg"`), svg)
	assert.Contains(t, svg, `width="132" height="82" viewBox="0 0 132 82"`)
	assert.Contains(t, svg, `<rect x="16" y="16" width="100" height="50"`)
}

func TestRenderOpts(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	errLayout := errors.New("bad source")
	_, err := tflib.Render(ctx, src, &tflib.RenderOpts{
		Layout: func(context.Context, string, *tfthemes.Config, tftarget.MeasureTextFunc) (*tftarget.Flowchart, error) {
			return nil, errLayout
		},
	})
	assert.Equal(t, errLayout, err)

	cfg := tfthemescatalog.Dark.Copy()
	b, err := tflib.Render(ctx, src, &tflib.RenderOpts{Config: cfg})
	require.NoError(t, err)
	assert.Contains(t, string(b), `fill="`+cfg.Flowchart.BackgroundColor+`"`)
}

func TestRenderWithoutLogger(t *testing.T) {
	t.Parallel()

	var hadLogger bool
	_, err := tflib.Render(context.Background(), src, &tflib.RenderOpts{
		Layout: func(ctx context.Context, src string, cfg *tfthemes.Config, measure tftarget.MeasureTextFunc) (*tftarget.Flowchart, error) {
			hadLogger = log.Has(ctx)
			return &tftarget.Flowchart{Shapes: tftarget.NewRect(0, 0, 1, 1), W: 1, H: 1}, nil
		},
	})
	require.NoError(t, err)
	assert.True(t, hadLogger)
}
