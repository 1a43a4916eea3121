package tfcli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"oss.terrastruct.com/tefcha/lib/version"
	"oss.terrastruct.com/tefcha/lib/xmain"
	"oss.terrastruct.com/tefcha/tfplugin"
	"oss.terrastruct.com/tefcha/tfthemes/tfthemescatalog"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s [--watch=false] [--theme=0] file.tefcha [file.svg]
  %[1]s markdown [--theme=0] file.md [file.html]
  %[1]s layout [name]

%[1]s lays out and renders file.tefcha to file.svg
It defaults to file.svg if an output path is not provided.

Use - to have %[1]s read from stdin or write to stdout.

Flags:
%[3]s

Subcommands:
  %[1]s markdown file.md - Renders every tefcha fenced code block in file.md to inline SVG and writes file.html
  %[1]s layout - Lists available layout engine options with short help
  %[1]s layout [name] - Display long help for a particular layout engine
  %[1]s themes - Lists available themes
  %[1]s version - Prints the version
`, filepath.Base(ms.Name), version.Version, ms.Opts.Help())
}

func layoutCmd(ctx context.Context, ms *xmain.State, ps []tfplugin.Plugin) error {
	if len(ms.Opts.Flags.Args()) == 1 {
		return shortLayoutHelp(ctx, ms, ps)
	} else if len(ms.Opts.Flags.Args()) == 2 {
		return longLayoutHelp(ctx, ms, ps)
	} else {
		return pluginSubcommand(ctx, ms, ps)
	}
}

func themesCmd(_ context.Context, ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, "Available themes:\n%s", tfthemescatalog.CLIString())
}

func shortLayoutHelp(ctx context.Context, ms *xmain.State, ps []tfplugin.Plugin) error {
	var pluginLines []string
	pinfos, err := tfplugin.ListPluginInfos(ctx, ps)
	if err != nil {
		return err
	}
	for _, p := range pinfos {
		var l string
		if p.Type == "bundled" {
			l = fmt.Sprintf("%s (bundled) - %s", p.Name, p.ShortHelp)
		} else {
			l = fmt.Sprintf("%s (%s) - %s", p.Name, ms.HumanPath(p.Path), p.ShortHelp)
		}
		pluginLines = append(pluginLines, l)
	}
	fmt.Fprintf(ms.Stdout, `Available layout engines found:

%s

Usage:
  To use a particular layout engine, set the environment variable TEFCHA_LAYOUT=[name] or flag --layout=[name].

Example:
  TEFCHA_LAYOUT=static tefcha in.tefcha out.svg

Subcommands:
  %s layout [layout name] - Display long help for a particular layout engine
`, strings.Join(pluginLines, "\n"), filepath.Base(ms.Name))
	return nil
}

func longLayoutHelp(ctx context.Context, ms *xmain.State, ps []tfplugin.Plugin) error {
	layout := ms.Opts.Flags.Arg(1)
	plugin, err := tfplugin.FindPlugin(ctx, ps, layout)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return layoutNotFound(ctx, ps, layout)
		}
		return err
	}

	pinfo, err := plugin.Info(ctx)
	if err != nil {
		return err
	}

	plocation := pinfo.Type
	if pinfo.Type == "binary" {
		plocation = fmt.Sprintf("executable plugin at %s", ms.HumanPath(pinfo.Path))
	}

	if !strings.HasSuffix(pinfo.LongHelp, "\n") {
		pinfo.LongHelp += "\n"
	}
	fmt.Fprintf(ms.Stdout, `%s (%s):

%s`, pinfo.Name, plocation, pinfo.LongHelp)

	return nil
}

func layoutNotFound(ctx context.Context, ps []tfplugin.Plugin, layout string) error {
	pinfos, err := tfplugin.ListPluginInfos(ctx, ps)
	if err != nil {
		return err
	}
	var names []string
	for _, p := range pinfos {
		names = append(names, p.Name)
	}

	return xmain.UsageErrorf(`TEFCHA_LAYOUT "%s" is not bundled and could not be found in your $PATH.
The available options are: %s. For details on each option, run "tefcha layout".`,
		layout, strings.Join(names, ", "))
}

// pluginSubcommand hands the remaining arguments to the plugin's own command
// line, e.g. tefcha layout static info.
func pluginSubcommand(ctx context.Context, ms *xmain.State, ps []tfplugin.Plugin) error {
	layout := ms.Opts.Flags.Arg(1)
	plugin, err := tfplugin.FindPlugin(ctx, ps, layout)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return layoutNotFound(ctx, ps, layout)
		}
		return err
	}

	ms.Opts = xmain.NewOpts(ms.Env, ms.Log, ms.Opts.Flags.Args()[2:])
	return tfplugin.Serve(plugin)(ctx, ms)
}
