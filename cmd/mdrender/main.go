// Package main is the entry point for the mdrender CLI.
package main

import (
	"os"

	"github.com/acgh213/marklinks/cmd/mdrender/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
