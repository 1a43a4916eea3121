// Package tfplugin enables the tefcha CLI to run layout engines bundled with
// the tefcha binary or via external plugin binaries.
//
// Binary plugins are stored in $PATH with the prefix tefcha-layout-*. i.e the
// binary for a plugin named grid would be tefcha-layout-grid. See ListPlugins.
package tfplugin

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"oss.terrastruct.com/tefcha/lib/xexec"
	"oss.terrastruct.com/tefcha/tfrenderers/tfsvg"
	"oss.terrastruct.com/tefcha/tftarget"
	"oss.terrastruct.com/tefcha/tfthemes"
)

// plugins contains the bundled layout plugins.
var plugins []Plugin

type Plugin interface {
	// Info returns the current info information of the plugin.
	Info(context.Context) (*PluginInfo, error)

	// Layout parses src and positions the resulting shapes. measure sizes text
	// with the font the flowchart will be rendered with.
	Layout(ctx context.Context, src string, cfg *tfthemes.Config, measure tftarget.MeasureTextFunc) (*tftarget.Flowchart, error)
}

// PluginInfo is the current info information of a plugin.
// note: The two fields Type and Path are not set by the plugin
// itself but only in ListPlugins.
type PluginInfo struct {
	Name      string `json:"name"`
	ShortHelp string `json:"shortHelp"`
	LongHelp  string `json:"longHelp"`

	// bundled | binary
	Type string `json:"type"`
	// If Type == binary then this contains the absolute path to the binary.
	Path string `json:"path"`
}

const binaryPrefix = "tefcha-layout-"

// ListPlugins returns the bundled plugins followed by every plugin binary on
// $PATH whose name is not already taken.
func ListPlugins(ctx context.Context) ([]Plugin, error) {
	var ps []Plugin
	ps = append(ps, plugins...)

	matches, err := xexec.SearchPath(os.Getenv("PATH"), binaryPrefix)
	if err != nil {
		return nil, err
	}
BINARY_PLUGINS_LOOP:
	for _, path := range matches {
		p := &execPlugin{path: path}
		info, err := p.Info(ctx)
		if err != nil {
			return nil, err
		}
		for _, p2 := range ps {
			info2, err := p2.Info(ctx)
			if err != nil {
				return nil, err
			}
			if info.Name == info2.Name {
				continue BINARY_PLUGINS_LOOP
			}
		}
		ps = append(ps, p)
	}
	return ps, nil
}

func ListPluginInfos(ctx context.Context, ps []Plugin) ([]*PluginInfo, error) {
	var infoSlice []*PluginInfo
	for _, p := range ps {
		info, err := p.Info(ctx)
		if err != nil {
			return nil, err
		}
		infoSlice = append(infoSlice, info)
	}

	return infoSlice, nil
}

// FindPlugin finds the plugin with the given name, case insensitively.
// It returns exec.ErrNotFound when there is none.
func FindPlugin(ctx context.Context, ps []Plugin, name string) (Plugin, error) {
	for _, p := range ps {
		info, err := p.Info(ctx)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(info.Name, name) {
			return p, nil
		}
	}
	return nil, exec.ErrNotFound
}

func LayoutFunc(p Plugin) tfsvg.LayoutFunc {
	return p.Layout
}
