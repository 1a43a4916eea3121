package main

import (
	"oss.terrastruct.com/tefcha/lib/xmain"
	"oss.terrastruct.com/tefcha/tfcli"
)

func main() {
	xmain.Main(tfcli.Run)
}
