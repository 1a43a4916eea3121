package tfcli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cdr.dev/slog"
	"github.com/spf13/pflag"

	"oss.terrastruct.com/tefcha/lib/go2"
	"oss.terrastruct.com/tefcha/lib/log"
	"oss.terrastruct.com/tefcha/lib/version"
	"oss.terrastruct.com/tefcha/lib/xmain"
	"oss.terrastruct.com/tefcha/tffonts"
	"oss.terrastruct.com/tefcha/tflayouts/tfstatic"
	"oss.terrastruct.com/tefcha/tfmarkdown"
	"oss.terrastruct.com/tefcha/tfplugin"
	"oss.terrastruct.com/tefcha/tfrenderers/tfsvg"
	"oss.terrastruct.com/tefcha/tfthemes"
	"oss.terrastruct.com/tefcha/tfthemes/tfthemescatalog"
)

func Run(ctx context.Context, ms *xmain.State) (err error) {
	ctx = log.WithDefault(ctx)
	watchFlag, err := ms.Opts.Bool("TEFCHA_WATCH", "watch", "w", false, "watch for changes to input and re-render the output on every change.")
	if err != nil {
		return err
	}
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		ms.Log.Warn.Printf("Invalid DEBUG flag value ignored")
		debugFlag = go2.Pointer(false)
	}
	layoutFlag := ms.Opts.String("TEFCHA_LAYOUT", "layout", "l", tfstatic.Name, "the layout engine used")
	themeFlag := ms.Opts.String("TEFCHA_THEME", "theme", "t", "0", "the theme ID or name")
	configFlag := ms.Opts.String("TEFCHA_CONFIG", "config", "c", "", "path to a JSON file whose fields override the theme's configuration")
	fontFlag := ms.Opts.String("TEFCHA_FONT", "font", "", "", fmt.Sprintf("path to .ttf file used to outline and measure text. If none provided, %s is used.", tffonts.DefaultName))
	timeoutFlag, err := ms.Opts.Int64("TEFCHA_TIMEOUT", "timeout", "", 120, "the maximum number of seconds a single render runs for before timing out")
	if err != nil {
		return err
	}
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}

	if *debugFlag {
		ctx = log.Leveled(ctx, slog.LevelDebug)
	}

	plugins, err := tfplugin.ListPlugins(ctx)
	if err != nil {
		return err
	}

	if len(ms.Opts.Flags.Args()) > 0 {
		switch ms.Opts.Flags.Arg(0) {
		case "layout":
			return layoutCmd(ctx, ms, plugins)
		case "themes":
			themesCmd(ctx, ms)
			return nil
		case "version":
			if len(ms.Opts.Flags.Args()) > 1 {
				return xmain.UsageErrorf("version subcommand accepts no arguments")
			}
			fmt.Fprintln(ms.Stdout, version.Version)
			return nil
		}
	}

	if len(ms.Opts.Flags.Args()) == 0 {
		if *versionFlag {
			fmt.Fprintln(ms.Stdout, version.Version)
			return nil
		}
		help(ms)
		return nil
	}

	cfg, err := loadConfig(ms, *themeFlag, *configFlag)
	if err != nil {
		return err
	}
	font, err := loadFont(*fontFlag)
	if err != nil {
		return xmain.UsageErrorf("failed to load font: %v", err)
	}
	plugin, err := tfplugin.FindPlugin(ctx, plugins, *layoutFlag)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return layoutNotFound(ctx, plugins, *layoutFlag)
		}
		return err
	}
	r := tfsvg.NewRenderer(cfg, font, tfplugin.LayoutFunc(plugin))
	timeout := time.Duration(*timeoutFlag) * time.Second

	if ms.Opts.Flags.Arg(0) == "markdown" {
		return markdownCmd(ctx, ms, r, timeout)
	}

	if len(ms.Opts.Flags.Args()) >= 3 {
		return xmain.UsageErrorf("too many arguments passed")
	}
	inputPath, outputPath, err := resolvePaths(ms, ms.Opts.Flags.Args(), ".svg")
	if err != nil {
		return err
	}

	if *watchFlag {
		if inputPath == "-" {
			return xmain.UsageErrorf("-w[atch] cannot be combined with reading input from stdin")
		}
		if outputPath == "-" {
			return xmain.UsageErrorf("-w[atch] cannot be combined with writing output to stdout")
		}
		w, err := newWatcher(ctx, ms, watcherOpts{
			renderer:   r,
			timeout:    timeout,
			inputPath:  inputPath,
			outputPath: outputPath,
		})
		if err != nil {
			return err
		}
		return w.run()
	}

	err = compile(ctx, ms, r, timeout, inputPath, outputPath)
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", ms.HumanPath(inputPath), err)
	}
	return nil
}

// resolvePaths returns the absolute input and output paths for args. The
// output defaults to the input with its extension replaced by ext.
func resolvePaths(ms *xmain.State, args []string, ext string) (inputPath, outputPath string, err error) {
	inputPath = args[0]
	if len(args) >= 2 {
		outputPath = args[1]
	} else if inputPath == "-" {
		outputPath = "-"
	} else {
		outputPath = renameExt(inputPath, ext)
	}

	inputPath, err = ms.AbsPath(inputPath)
	if err != nil {
		return "", "", err
	}
	outputPath, err = ms.AbsPath(outputPath)
	if err != nil {
		return "", "", err
	}
	if inputPath != "-" && inputPath == outputPath {
		return "", "", xmain.UsageErrorf("output path %s would overwrite the input", ms.HumanPath(outputPath))
	}
	return inputPath, outputPath, nil
}

// loadConfig resolves theme by ID or name and overlays the JSON file at
// configPath on a copy of it.
func loadConfig(ms *xmain.State, theme, configPath string) (*tfthemes.Config, error) {
	var cfg *tfthemes.Config
	var ok bool
	if id, err := strconv.ParseInt(theme, 10, 64); err == nil {
		cfg, ok = tfthemescatalog.Find(id)
	} else {
		cfg, ok = tfthemescatalog.FindByName(theme)
	}
	if !ok {
		return nil, xmain.UsageErrorf("-t[heme] could not be found. The available options are:\n%s\nYou provided: %s", tfthemescatalog.CLIString(), theme)
	}
	ms.Log.Debug.Printf("using theme %s (ID: %d)", cfg.Name, cfg.ID)

	if configPath == "" {
		return cfg, nil
	}
	b, err := ms.ReadPath(configPath)
	if err != nil {
		return nil, xmain.UsageErrorf("failed to read -c[onfig]: %v", err)
	}
	cfg, err = cfg.ApplyJSON(b)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, xmain.UsageErrorf("invalid -c[onfig] %s: %v", ms.HumanPath(configPath), err)
	}
	return cfg, nil
}

func loadFont(path string) (*tffonts.Font, error) {
	if path == "" {
		return tffonts.Default()
	}
	return tffonts.LoadFile(path)
}

func compile(ctx context.Context, ms *xmain.State, r *tfsvg.Renderer, timeout time.Duration, inputPath, outputPath string) error {
	start := time.Now()
	input, err := ms.ReadPath(inputPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	out, err := r.RenderBytes(ctx, string(input))
	if err != nil {
		return err
	}

	err = ms.WritePath(outputPath, out)
	if err != nil {
		return err
	}
	if outputPath != "-" {
		ms.Log.Success.Printf("successfully compiled %s to %s in %s", ms.HumanPath(inputPath), ms.HumanPath(outputPath), time.Since(start))
	}
	return nil
}

func markdownCmd(ctx context.Context, ms *xmain.State, r *tfsvg.Renderer, timeout time.Duration) error {
	args := ms.Opts.Flags.Args()[1:]
	if len(args) == 0 {
		return xmain.UsageErrorf("markdown subcommand requires an input file")
	} else if len(args) > 2 {
		return xmain.UsageErrorf("too many arguments passed")
	}
	inputPath, outputPath, err := resolvePaths(ms, args, ".html")
	if err != nil {
		return err
	}

	md, err := ms.ReadPath(inputPath)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	out, err := tfmarkdown.Convert(ctx, r, md)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", ms.HumanPath(inputPath), err)
	}
	return ms.WritePath(outputPath, out)
}

func renameExt(fp string, newExt string) string {
	ext := filepath.Ext(fp)
	if ext == "" {
		return fp + newExt
	} else {
		return strings.TrimSuffix(fp, ext) + newExt
	}
}
