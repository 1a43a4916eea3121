package xmain

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"oss.terrastruct.com/cmdlog"
	"oss.terrastruct.com/xos"
)

func newTestOpts(environ []string, args ...string) *Opts {
	env := xos.NewEnv(environ)
	return NewOpts(env, cmdlog.Log(env, io.Discard), args)
}

func TestOptsEnvFallback(t *testing.T) {
	t.Parallel()

	o := newTestOpts([]string{"TEFCHA_THEME=dark", "TEFCHA_WATCH=true", "TEFCHA_MARGIN=2.5", "TEFCHA_TIMEOUT=30"})
	theme := o.String("TEFCHA_THEME", "theme", "t", "blue", "")
	watch, err := o.Bool("TEFCHA_WATCH", "watch", "w", false, "")
	require.NoError(t, err)
	margin, err := o.Float64("TEFCHA_MARGIN", "margin", "", 0, "")
	require.NoError(t, err)
	timeout, err := o.Int64("TEFCHA_TIMEOUT", "timeout", "", 120, "")
	require.NoError(t, err)

	require.NoError(t, o.Flags.Parse(o.Args))
	assert.Equal(t, "dark", *theme)
	assert.True(t, *watch)
	assert.Equal(t, 2.5, *margin)
	assert.Equal(t, int64(30), *timeout)
	assert.Contains(t, o.Help(), "$TEFCHA_THEME")
}

func TestOptsFlagWins(t *testing.T) {
	t.Parallel()

	o := newTestOpts([]string{"TEFCHA_THEME=dark"}, "--theme", "grey")
	theme := o.String("TEFCHA_THEME", "theme", "t", "blue", "")
	require.NoError(t, o.Flags.Parse(o.Args))
	assert.Equal(t, "grey", *theme)
}

func TestOptsBadEnv(t *testing.T) {
	t.Parallel()

	o := newTestOpts([]string{"TEFCHA_WATCH=maybe", "TEFCHA_TIMEOUT=soon"})
	_, err := o.Bool("TEFCHA_WATCH", "watch", "w", false, "")
	assert.EqualError(t, err, `invalid environment variable TEFCHA_WATCH. Expected bool. Found "maybe".`)
	_, err = o.Int64("TEFCHA_TIMEOUT", "timeout", "", 120, "")
	assert.EqualError(t, err, `invalid environment variable TEFCHA_TIMEOUT. Expected int64. Found "soon".`)
}
