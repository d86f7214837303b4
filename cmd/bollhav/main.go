// Package main provides the bollhav command.
package main

import (
	"context"
	"os"

	"github.com/leapstack-labs/bollhav/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
