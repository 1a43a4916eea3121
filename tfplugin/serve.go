package tfplugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"oss.terrastruct.com/tefcha/lib/xmain"
	"oss.terrastruct.com/tefcha/tftarget"
)

// Serve returns a xmain.RunFunc that will invoke the plugin p as necessary to
// service the calling tefcha CLI.
//
// See cmd/tefcha-layout-static for an example and execPlugin in exec.go for
// the binary plugin protocol.
func Serve(p Plugin) xmain.RunFunc {
	return func(ctx context.Context, ms *xmain.State) (err error) {
		if !ms.Opts.Flags.Parsed() {
			err = ms.Opts.Flags.Parse(ms.Opts.Args)
			if !errors.Is(err, pflag.ErrHelp) && err != nil {
				return xmain.UsageErrorf("failed to parse flags: %v", err)
			}
			if errors.Is(err, pflag.ErrHelp) {
				return help(ctx, p, ms)
			}
		}

		if len(ms.Opts.Flags.Args()) < 1 {
			return xmain.UsageErrorf("expected first argument to be subcmd name")
		}

		subcmd := ms.Opts.Flags.Arg(0)
		switch subcmd {
		case "info":
			return info(ctx, p, ms)
		case "layout":
			return layout(ctx, p, ms)
		default:
			return xmain.UsageErrorf("unrecognized command: %s", subcmd)
		}
	}
}

func info(ctx context.Context, p Plugin, ms *xmain.State) error {
	info, err := p.Info(ctx)
	if err != nil {
		return err
	}
	b, err := json.Marshal(info)
	if err != nil {
		return err
	}
	_, err = ms.Stdout.Write(b)
	if err != nil {
		return err
	}
	return nil
}

func help(ctx context.Context, p Plugin, ms *xmain.State) error {
	info, err := p.Info(ctx)
	if err != nil {
		return err
	}
	_, err = ms.Stdout.Write([]byte(info.LongHelp + "\n"))
	if err != nil {
		return err
	}
	return nil
}

func layout(ctx context.Context, p Plugin, ms *xmain.State) error {
	dec := json.NewDecoder(ms.Stdin)
	enc := json.NewEncoder(ms.Stdout)

	var req layoutRequest
	if err := dec.Decode(&req); err != nil {
		return fmt.Errorf("failed to read layout request: %w", err)
	}
	if req.Config == nil {
		return errors.New("layout request has no config")
	}

	measure := func(text string, attrs map[string]string) (tftarget.TextSize, error) {
		err := enc.Encode(pluginMessage{Measure: &measureRequest{Text: text, Attrs: attrs}})
		if err != nil {
			return tftarget.TextSize{}, err
		}
		var reply measureReply
		if err := dec.Decode(&reply); err != nil {
			return tftarget.TextSize{}, fmt.Errorf("failed to read measure reply: %w", err)
		}
		if reply.Error != "" {
			return tftarget.TextSize{}, errors.New(reply.Error)
		}
		if reply.Size == nil {
			return tftarget.TextSize{}, errors.New("measure reply has no size")
		}
		return *reply.Size, nil
	}

	fc, err := p.Layout(ctx, req.Src, req.Config, measure)
	if err != nil {
		return enc.Encode(pluginMessage{Error: err.Error()})
	}
	return enc.Encode(pluginMessage{Flowchart: fc})
}
