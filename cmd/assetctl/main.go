package main

import "assets-manager/cmd/assetctl/cmd"

func main() {
	cmd.Execute()
}
