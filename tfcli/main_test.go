package tfcli

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/xos"

	"oss.terrastruct.com/tefcha/lib/log"
	"oss.terrastruct.com/tefcha/lib/version"
	"oss.terrastruct.com/tefcha/lib/xmain"
	"oss.terrastruct.com/tefcha/tfplugin"
)

const testSrc = `{"type": "group", "children": [
	{"type": "rect", "x": 0, "y": 0, "w": 100, "h": 50},
	{"type": "text", "x": 10, "y": 10, "content": "start"}
]}`

func runTestMain(t *testing.T, env *xos.Env, stdin string, args ...string) (*xmain.TestState, error) {
	t.Helper()
	ts := &xmain.TestState{
		Run:   Run,
		Env:   env,
		Args:  append([]string{"tefcha"}, args...),
		Stdin: strings.NewReader(stdin),
	}
	ctx := log.WithTB(context.Background(), t, nil)
	return ts, ts.Main(ctx)
}

func writeFile(t *testing.T, dir, fp, data string) string {
	t.Helper()
	fp = filepath.Join(dir, fp)
	require.NoError(t, os.WriteFile(fp, []byte(data), 0644))
	return fp
}

func readFile(t *testing.T, fp string) string {
	t.Helper()
	b, err := os.ReadFile(fp)
	require.NoError(t, err)
	return string(b)
}

func TestCLI(t *testing.T) {
	t.Parallel()

	tca := []struct {
		name string
		run  func(t *testing.T, dir string, env *xos.Env)
	}{
		{
			name: "default_output",
			run: func(t *testing.T, dir string, env *xos.Env) {
				in := writeFile(t, dir, "start.tefcha", testSrc)
				_, err := runTestMain(t, env, "", in)
				require.NoError(t, err)
				svg := readFile(t, filepath.Join(dir, "start.svg"))
				assert.Contains(t, svg, `width="132" height="82" viewBox="0 0 132 82"`)
				assert.Contains(t, svg, `<rect x="16" y="16" width="100" height="50"`)
			},
		},
		{
			name: "explicit_output",
			run: func(t *testing.T, dir string, env *xos.Env) {
				in := writeFile(t, dir, "start", testSrc)
				out := filepath.Join(dir, "out.svg")
				ts, err := runTestMain(t, env, "", in, out)
				require.NoError(t, err)
				assert.Contains(t, readFile(t, out), `<svg version="1.1"`)
				assert.Contains(t, ts.Stderr.String(), "successfully compiled")
			},
		},
		{
			name: "stdin_stdout",
			run: func(t *testing.T, dir string, env *xos.Env) {
				ts, err := runTestMain(t, env, testSrc, "-")
				require.NoError(t, err)
				assert.True(t, strings.HasPrefix(ts.Stdout.String(), `<svg version="1.1"`), ts.Stdout.String())
			},
		},
		{
			name: "theme_env",
			run: func(t *testing.T, dir string, env *xos.Env) {
				env.Setenv("TEFCHA_THEME", "Dark")
				ts, err := runTestMain(t, env, testSrc, "-")
				require.NoError(t, err)
				assert.Contains(t, ts.Stdout.String(), `fill="#121212"`)
			},
		},
		{
			name: "theme_flag_wins",
			run: func(t *testing.T, dir string, env *xos.Env) {
				env.Setenv("TEFCHA_THEME", "Dark")
				ts, err := runTestMain(t, env, testSrc, "--theme=0", "-")
				require.NoError(t, err)
				assert.NotContains(t, ts.Stdout.String(), `#121212`)
			},
		},
		{
			name: "unknown_theme",
			run: func(t *testing.T, dir string, env *xos.Env) {
				_, err := runTestMain(t, env, testSrc, "-t", "99", "-")
				var uerr xmain.UsageError
				require.True(t, errors.As(err, &uerr), "%v", err)
				assert.Contains(t, err.Error(), "You provided: 99")
			},
		},
		{
			name: "config_override",
			run: func(t *testing.T, dir string, env *xos.Env) {
				cfg := writeFile(t, dir, "cfg.json", `{"flowchart": {"marginX": 0, "marginY": 0}}`)
				ts, err := runTestMain(t, env, testSrc, "--config", cfg, "-")
				require.NoError(t, err)
				assert.Contains(t, ts.Stdout.String(), `width="100" height="50" viewBox="0 0 100 50"`)
			},
		},
		{
			name: "invalid_config",
			run: func(t *testing.T, dir string, env *xos.Env) {
				cfg := writeFile(t, dir, "cfg.json", `{"text": {"attrs": {"font-size": "14em"}}}`)
				_, err := runTestMain(t, env, testSrc, "-c", cfg, "-")
				var uerr xmain.UsageError
				require.True(t, errors.As(err, &uerr), "%v", err)
				assert.Contains(t, err.Error(), "px")
			},
		},
		{
			name: "missing_font",
			run: func(t *testing.T, dir string, env *xos.Env) {
				_, err := runTestMain(t, env, testSrc, "--font", filepath.Join(dir, "nope.ttf"), "-")
				var uerr xmain.UsageError
				require.True(t, errors.As(err, &uerr), "%v", err)
				assert.Contains(t, err.Error(), "failed to load font")
			},
		},
		{
			name: "unknown_layout",
			run: func(t *testing.T, dir string, env *xos.Env) {
				_, err := runTestMain(t, env, testSrc, "--layout=nope", "-")
				var uerr xmain.UsageError
				require.True(t, errors.As(err, &uerr), "%v", err)
				assert.Contains(t, err.Error(), `TEFCHA_LAYOUT "nope"`)
				assert.Contains(t, err.Error(), "static")
			},
		},
		{
			name: "layout_error",
			run: func(t *testing.T, dir string, env *xos.Env) {
				in := writeFile(t, dir, "bad.tefcha", `{"type": "hexagon"}`)
				_, err := runTestMain(t, env, "", in)
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to compile")
				_, statErr := os.Stat(filepath.Join(dir, "bad.svg"))
				assert.True(t, os.IsNotExist(statErr))
			},
		},
		{
			name: "too_many_args",
			run: func(t *testing.T, dir string, env *xos.Env) {
				_, err := runTestMain(t, env, "", "a", "b", "c")
				var uerr xmain.UsageError
				assert.True(t, errors.As(err, &uerr), "%v", err)
			},
		},
		{
			name: "overwrite_input",
			run: func(t *testing.T, dir string, env *xos.Env) {
				in := writeFile(t, dir, "start.svg", testSrc)
				_, err := runTestMain(t, env, "", in)
				var uerr xmain.UsageError
				assert.True(t, errors.As(err, &uerr), "%v", err)
			},
		},
		{
			name: "help",
			run: func(t *testing.T, dir string, env *xos.Env) {
				ts, err := runTestMain(t, env, "")
				require.NoError(t, err)
				assert.Contains(t, ts.Stdout.String(), "Usage:")
				assert.Contains(t, ts.Stdout.String(), "$TEFCHA_LAYOUT")
			},
		},
		{
			name: "version",
			run: func(t *testing.T, dir string, env *xos.Env) {
				ts, err := runTestMain(t, env, "", "version")
				require.NoError(t, err)
				assert.Equal(t, version.Version+"\n", ts.Stdout.String())

				ts, err = runTestMain(t, env, "", "-v")
				require.NoError(t, err)
				assert.Equal(t, version.Version+"\n", ts.Stdout.String())
			},
		},
		{
			name: "themes",
			run: func(t *testing.T, dir string, env *xos.Env) {
				ts, err := runTestMain(t, env, "", "themes")
				require.NoError(t, err)
				assert.Equal(t, "Available themes:\n- Blue: 0\n- Grey: 1\n- Dark: 2\n", ts.Stdout.String())
			},
		},
		{
			name: "layout_list",
			run: func(t *testing.T, dir string, env *xos.Env) {
				ts, err := runTestMain(t, env, "", "layout")
				require.NoError(t, err)
				assert.Contains(t, ts.Stdout.String(), "static (bundled) - ")
			},
		},
		{
			name: "layout_long_help",
			run: func(t *testing.T, dir string, env *xos.Env) {
				ts, err := runTestMain(t, env, "", "layout", "static")
				require.NoError(t, err)
				assert.True(t, strings.HasPrefix(ts.Stdout.String(), "static (bundled):\n\n"), ts.Stdout.String())
			},
		},
		{
			name: "layout_plugin_subcommand",
			run: func(t *testing.T, dir string, env *xos.Env) {
				ts, err := runTestMain(t, env, "", "layout", "static", "info")
				require.NoError(t, err)
				var info tfplugin.PluginInfo
				require.NoError(t, json.Unmarshal(ts.Stdout.Bytes(), &info))
				assert.Equal(t, "static", info.Name)
				assert.Equal(t, "bundled", info.Type)
			},
		},
		{
			name: "markdown",
			run: func(t *testing.T, dir string, env *xos.Env) {
				in := writeFile(t, dir, "doc.md", "# Title\n\n```tefcha\n"+testSrc+"\n```\n")
				_, err := runTestMain(t, env, "", "markdown", in)
				require.NoError(t, err)
				html := readFile(t, filepath.Join(dir, "doc.html"))
				assert.Contains(t, html, "<h1>Title</h1>")
				assert.Contains(t, html, `<svg version="1.1"`)
			},
		},
		{
			name: "markdown_no_input",
			run: func(t *testing.T, dir string, env *xos.Env) {
				_, err := runTestMain(t, env, "", "markdown")
				var uerr xmain.UsageError
				assert.True(t, errors.As(err, &uerr), "%v", err)
			},
		},
	}

	for _, tc := range tca {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.run(t, t.TempDir(), xos.NewEnv(nil))
		})
	}
}

func TestRenameExt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a/b.svg", renameExt("a/b.tefcha", ".svg"))
	assert.Equal(t, "a/b.svg", renameExt("a/b", ".svg"))
	assert.Equal(t, "a.b/c.html", renameExt("a.b/c.md", ".html"))
}
