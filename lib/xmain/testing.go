package xmain

import (
	"bytes"
	"context"
	"io"
	"strings"

	"oss.terrastruct.com/cmdlog"
	"oss.terrastruct.com/xos"
)

// TestState runs a RunFunc in process with buffered stdio, the way Main runs
// it for a real command.
type TestState struct {
	Run  RunFunc
	Env  *xos.Env
	Args []string

	Stdin  io.Reader
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// Main runs ts.Run to completion. Args[0] is the command name.
func (ts *TestState) Main(ctx context.Context) error {
	name := ""
	var args []string
	if len(ts.Args) > 0 {
		name = ts.Args[0]
		args = ts.Args[1:]
	}
	env := ts.Env
	if env == nil {
		env = xos.NewEnv(nil)
	}
	stdin := ts.Stdin
	if stdin == nil {
		stdin = strings.NewReader("")
	}

	ms := &State{
		Name: name,

		Stdin:  stdin,
		Stdout: nopWriteCloser{&ts.Stdout},
		Stderr: nopWriteCloser{&ts.Stderr},

		Env: env,
	}
	ms.Log = cmdlog.Log(ms.Env, ms.Stderr)
	ms.Opts = NewOpts(ms.Env, ms.Log, args)
	return ms.Main(ctx, nil, ts.Run)
}
