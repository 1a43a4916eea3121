package tflib

import (
	"context"

	"oss.terrastruct.com/tefcha/lib/log"
	"oss.terrastruct.com/tefcha/tffonts"
	"oss.terrastruct.com/tefcha/tflayouts/tfstatic"
	"oss.terrastruct.com/tefcha/tfrenderers/tfsvg"
	"oss.terrastruct.com/tefcha/tfthemes"
	"oss.terrastruct.com/tefcha/tfthemes/tfthemescatalog"
)

type RenderOpts struct {
	// Config defaults to the first theme of the catalog.
	Config *tfthemes.Config
	// Font defaults to the bundled font. Callers rendering repeatedly should
	// load it once and pass it in.
	Font *tffonts.Font
	// Layout defaults to the static layout.
	Layout tfsvg.LayoutFunc
}

// Render lays out and renders src to SVG bytes. ctx is given a stderr logger
// if it does not carry one.
func Render(ctx context.Context, src string, opts *RenderOpts) ([]byte, error) {
	ctx = log.WithDefault(ctx)
	if opts == nil {
		opts = &RenderOpts{}
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = tfthemescatalog.Catalog[0].Copy()
	}
	font := opts.Font
	if font == nil {
		var err error
		font, err = tffonts.Default()
		if err != nil {
			return nil, err
		}
	}
	layout := opts.Layout
	if layout == nil {
		layout = tfstatic.Layout
	}

	return tfsvg.NewRenderer(cfg, font, layout).RenderBytes(ctx, src)
}
