// Package main is the entry point for the mcpdock CLI.
package main

import (
	"os"

	"github.com/drydocklabs/mcpdock/cmd/mcpdock/app"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

func main() {
	// Initialize the logger
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
