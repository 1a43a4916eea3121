package tfmarkdown_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	goldmarkHtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"

	"oss.terrastruct.com/tefcha/lib/log"
	"oss.terrastruct.com/tefcha/tffonts"
	"oss.terrastruct.com/tefcha/tflayouts/tfstatic"
	"oss.terrastruct.com/tefcha/tfmarkdown"
	"oss.terrastruct.com/tefcha/tfrenderers/tfsvg"
	"oss.terrastruct.com/tefcha/tftarget"
	"oss.terrastruct.com/tefcha/tfthemes"
	"oss.terrastruct.com/tefcha/tfthemes/tfthemescatalog"
)

func newRenderer(t *testing.T, layout tfsvg.LayoutFunc) *tfsvg.Renderer {
	f, err := tffonts.Default()
	require.NoError(t, err)
	return tfsvg.NewRenderer(tfthemescatalog.Blue.Copy(), f, layout)
}

func convert(t *testing.T, r *tfsvg.Renderer, md string) (string, *goquery.Document) {
	ctx := log.WithTB(context.Background(), t, nil)
	out, err := tfmarkdown.Convert(ctx, r, []byte(md))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	require.NoError(t, err)
	return string(out), doc
}

const doc = "# Flow\n\n" +
	"```tefcha\n" +
	`{"type": "group", "children": [{"type": "rect", "w": 40, "h": 20}, {"type": "diamond", "y": 30, "w": 40, "h": 20}]}` + "\n" +
	"```\n\n" +
	"```go\nfmt.Println(\"<hi>\")\n```\n"

func TestConvert(t *testing.T) {
	t.Parallel()

	out, d := convert(t, newRenderer(t, tfstatic.Layout), doc)

	assert.Equal(t, "Flow", d.Find("h1").Text())
	svgs := d.Find("svg")
	require.Equal(t, 1, svgs.Length())
	assert.Equal(t, 1, svgs.Find("polygon").Length()-svgs.Find("marker polygon").Length())
	viewBox, ok := svgs.Attr("viewBox")
	require.True(t, ok)
	assert.Equal(t, "0 0 72 82", viewBox)

	// The first child of the document is the marker definitions.
	first := svgs.Nodes[0].FirstChild
	require.NotNil(t, first)
	assert.Equal(t, html.ElementNode, first.Type)
	assert.Equal(t, "defs", first.Data)

	code := d.Find("pre code.language-go")
	require.Equal(t, 1, code.Length())
	assert.Equal(t, "fmt.Println(\"<hi>\")\n", code.Text())
	assert.Contains(t, out, "&lt;hi&gt;")
	assert.Equal(t, 0, d.Find("code.language-tefcha").Length())
}

func TestConvertError(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, func(context.Context, string, *tfthemes.Config, tftarget.MeasureTextFunc) (*tftarget.Flowchart, error) {
		return nil, errors.New(`line 1: unexpected "<if>" & more`)
	})
	out, d := convert(t, r, "```tefcha\nif <if>\n```\n\nafter\n")

	pre := d.Find("pre.tefcha-error code")
	require.Equal(t, 1, pre.Length())
	assert.Equal(t, `line 1: unexpected "<if>" & more`, pre.Text())
	assert.Contains(t, out, `&quot;&lt;if&gt;&quot; &amp; more`)
	assert.NotContains(t, out, "&amp;lt;")
	assert.Equal(t, "after", d.Find("p").Text())
	assert.Equal(t, 0, d.Find("svg").Length())
}

func TestSourceIsTrimmed(t *testing.T) {
	t.Parallel()

	var got string
	r := newRenderer(t, func(_ context.Context, src string, _ *tfthemes.Config, _ tftarget.MeasureTextFunc) (*tftarget.Flowchart, error) {
		got = src
		return &tftarget.Flowchart{Shapes: tftarget.NewPoint(0, 0)}, nil
	})
	convert(t, r, "```tefcha\n\n  a\n    b\n\n```\n")
	assert.Equal(t, "a\n    b", got)
}

func TestExtenderWithOptions(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	m := goldmark.New(goldmark.WithExtensions(
		tfmarkdown.NewExtender(ctx, newRenderer(t, tfstatic.Layout), goldmarkHtml.WithXHTML()),
	))
	var buf bytes.Buffer
	require.NoError(t, m.Convert([]byte("```\nplain\n```\n"), &buf))
	assert.Equal(t, "<pre><code>plain\n</code></pre>\n", buf.String())
	assert.False(t, strings.Contains(buf.String(), "svg"))
}
