// Command palimpsest overlays emotion-driven text on a live camera feed.
package main

import (
	"os"

	"github.com/teslashibe/go-palimpsest/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
