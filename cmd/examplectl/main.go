package main

import (
	"fmt"
	"os"

	"github.com/flowline/examplectl/pkg/cli"
	"github.com/flowline/examplectl/pkg/console"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	rootCmd := cli.NewRootCommand(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
