// Package main is the entry point for the marketsearch server.
package main

import (
	"os"

	"github.com/mvalldaura/marketsearch/cmd/marketsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
