// Package main provides the snipsql command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/snipsql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
