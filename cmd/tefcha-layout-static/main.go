// tefcha-layout-static serves the bundled static layout engine over the binary
// plugin protocol. It doubles as the reference for out of tree layout plugins.
package main

import (
	"oss.terrastruct.com/tefcha/lib/xmain"
	"oss.terrastruct.com/tefcha/tfplugin"
)

func main() {
	xmain.Main(tfplugin.Serve(tfplugin.StaticPlugin))
}
