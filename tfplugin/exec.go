package tfplugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"cdr.dev/slog"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/tefcha/lib/log"
	timelib "oss.terrastruct.com/tefcha/lib/time"
	"oss.terrastruct.com/tefcha/tftarget"
	"oss.terrastruct.com/tefcha/tfthemes"
)

// execPlugin uses the binary at path with the plugin protocol to implement
// the Plugin interface.
//
// The layout plugin protocol works as follows.
//
// Info
//  1. The binary is invoked with info as the first argument.
//  2. The stdout of the binary is unmarshalled into PluginInfo.
//
// Layout
//  1. The binary is invoked with layout as the first argument.
//  2. A layoutRequest is written to its stdin as a single JSON line.
//  3. The binary writes pluginMessage JSON lines to stdout. For each message
//     carrying a measure request, a measureReply line is written back to stdin.
//  4. The exchange ends with a message carrying either a flowchart or an error.
//
// If the binary cannot speak the protocol it exits with a non zero status code
// and writes the error to stderr.
type execPlugin struct {
	path string
}

type layoutRequest struct {
	Src    string           `json:"src"`
	Config *tfthemes.Config `json:"config"`
}

type measureRequest struct {
	Text  string            `json:"text"`
	Attrs map[string]string `json:"attrs"`
}

type measureReply struct {
	Size  *tftarget.TextSize `json:"size,omitempty"`
	Error string             `json:"error,omitempty"`
}

type pluginMessage struct {
	Measure   *measureRequest     `json:"measure,omitempty"`
	Flowchart *tftarget.Flowchart `json:"flowchart,omitempty"`
	Error     string              `json:"error,omitempty"`
}

func (p execPlugin) Info(ctx context.Context) (_ *PluginInfo, err error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	cmd := exec.CommandContext(ctx, p.path, "info")
	defer xdefer.Errorf(&err, "failed to run %v", cmd.Args)

	stdout, err := cmd.Output()
	if err != nil {
		ee := &exec.ExitError{}
		if errors.As(err, &ee) && len(ee.Stderr) > 0 {
			return nil, fmt.Errorf("%v\nstderr:\n%s", ee, ee.Stderr)
		}
		return nil, err
	}

	var info PluginInfo

	err = json.Unmarshal(stdout, &info)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal json: %w", err)
	}
	info.Type = "binary"
	info.Path = p.path

	return &info, nil
}

func (p execPlugin) Layout(ctx context.Context, src string, cfg *tfthemes.Config, measure tftarget.MeasureTextFunc) (_ *tftarget.Flowchart, err error) {
	ctx, cancel := timelib.WithTimeout(ctx, time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.path, "layout")
	defer xdefer.Errorf(&err, "failed to run %v", cmd.Args)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	fc, convErr := converse(ctx, json.NewEncoder(stdin), json.NewDecoder(stdout), src, cfg, measure)
	stdin.Close()
	// Unblock a plugin still writing so that Wait can return.
	io.Copy(io.Discard, stdout)

	if err := cmd.Wait(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%v\nstderr:\n%s", err, stderr)
		}
		return nil, err
	}
	if convErr != nil {
		return nil, convErr
	}
	return fc, nil
}

func converse(ctx context.Context, enc *json.Encoder, dec *json.Decoder, src string, cfg *tfthemes.Config, measure tftarget.MeasureTextFunc) (*tftarget.Flowchart, error) {
	err := enc.Encode(layoutRequest{Src: src, Config: cfg})
	if err != nil {
		return nil, err
	}

	measured := 0
	for {
		var msg pluginMessage
		if err := dec.Decode(&msg); err != nil {
			return nil, fmt.Errorf("failed to read plugin message: %w", err)
		}
		switch {
		case msg.Measure != nil:
			measured++
			var reply measureReply
			size, err := measure(msg.Measure.Text, msg.Measure.Attrs)
			if err != nil {
				reply.Error = err.Error()
			} else {
				reply.Size = &size
			}
			if err := enc.Encode(reply); err != nil {
				return nil, err
			}
		case msg.Error != "":
			return nil, errors.New(msg.Error)
		case msg.Flowchart != nil:
			log.Debug(ctx, "plugin layout done", slog.F("measured", measured))
			return msg.Flowchart, nil
		default:
			return nil, errors.New("plugin sent an empty message")
		}
	}
}
