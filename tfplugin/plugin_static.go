package tfplugin

import (
	"context"

	"oss.terrastruct.com/tefcha/tflayouts/tfstatic"
	"oss.terrastruct.com/tefcha/tftarget"
	"oss.terrastruct.com/tefcha/tfthemes"
)

var StaticPlugin = staticPlugin{}

func init() {
	plugins = append(plugins, StaticPlugin)
}

type staticPlugin struct{}

func (p staticPlugin) Info(context.Context) (*PluginInfo, error) {
	return &PluginInfo{
		Name:      tfstatic.Name,
		Type:      "bundled",
		ShortHelp: "Renders flowcharts that are already positioned",
		LongHelp: `static reads a JSON shape tree instead of flowchart source.
A bare root shape is measured and moved to start at the configured margins.
An object of the form {"shapes": <root>, "w": <width>, "h": <height>} is drawn as is.
`,
	}, nil
}

func (p staticPlugin) Layout(ctx context.Context, src string, cfg *tfthemes.Config, measure tftarget.MeasureTextFunc) (*tftarget.Flowchart, error) {
	return tfstatic.Layout(ctx, src, cfg, measure)
}
