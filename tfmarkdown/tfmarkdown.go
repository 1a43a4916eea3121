// tfmarkdown renders ```tefcha fenced code blocks in Markdown as inline SVG
// flowcharts.
package tfmarkdown

import (
	"bytes"
	"context"
	"strings"

	"cdr.dev/slog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"oss.terrastruct.com/tefcha/lib/log"
	"oss.terrastruct.com/tefcha/lib/svg"
	"oss.terrastruct.com/tefcha/tfrenderers/tfsvg"
)

const Language = "tefcha"

// Extender is a goldmark.Extender. Fences in any other language are rendered
// by goldmark's default HTML renderer.
type Extender struct {
	// goldmark renderers take no context, so the one of the conversion is kept here.
	ctx      context.Context
	renderer *tfsvg.Renderer
	htmlOpts []html.Option
}

// NewExtender returns an extender drawing every tefcha fence with r. htmlOpts
// configure the renderer used for other fences.
func NewExtender(ctx context.Context, r *tfsvg.Renderer, htmlOpts ...html.Option) *Extender {
	return &Extender{
		ctx:      ctx,
		renderer: r,
		htmlOpts: htmlOpts,
	}
}

func (e *Extender) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(newFenceRenderer(e), 200),
	))
}

// Convert renders GitHub flavored Markdown to HTML.
func Convert(ctx context.Context, r *tfsvg.Renderer, md []byte) ([]byte, error) {
	m := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			NewExtender(ctx, r),
		),
	)
	var buf bytes.Buffer
	if err := m.Convert(md, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type fenceRenderer struct {
	ext      *Extender
	fallback renderer.NodeRendererFunc
}

// funcCapture records the function registered for one node kind.
type funcCapture struct {
	kind ast.NodeKind
	fn   renderer.NodeRendererFunc
}

func (c *funcCapture) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	if kind == c.kind {
		c.fn = fn
	}
}

func newFenceRenderer(e *Extender) *fenceRenderer {
	capture := &funcCapture{kind: ast.KindFencedCodeBlock}
	html.NewRenderer(e.htmlOpts...).RegisterFuncs(capture)
	return &fenceRenderer{
		ext:      e,
		fallback: capture.fn,
	}
}

func (r *fenceRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *fenceRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if string(n.Language(source)) != Language {
		return r.fallback(w, source, node, entering)
	}
	if !entering {
		return ast.WalkContinue, nil
	}

	var src strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		src.Write(line.Value(source))
	}

	out, err := r.ext.renderer.RenderBytes(r.ext.ctx, strings.TrimSpace(src.String()))
	if err != nil {
		log.Warn(r.ext.ctx, "failed to render tefcha block", slog.Error(err))
		_, _ = w.WriteString(`<pre class="tefcha-error"><code>`)
		_, _ = w.WriteString(svg.EscapeText(err.Error()))
		_, _ = w.WriteString("</code></pre>\n")
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.Write(out)
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}
