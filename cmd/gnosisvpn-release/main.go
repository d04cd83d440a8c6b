package main

import (
	"os"

	"github.com/gnosis/gnosisvpn-release/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
