// Package main is the entry point for the msq CLI client.
package main

import (
	"github.com/mvalldaura/marketsearch/cmd/msq/cmd"
)

func main() {
	cmd.Execute()
}
