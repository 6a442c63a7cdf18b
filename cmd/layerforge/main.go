package main

import "layerforge/internal/cli"

func main() {
	cli.Execute()
}
