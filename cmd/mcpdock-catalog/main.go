// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point for the mcpdock catalog API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/drydocklabs/mcpdock/cmd/mcpdock-catalog/app"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

func main() {
	// Initialize the logger
	logger.Initialize()

	// Cancel the command context on SIGINT/SIGTERM so serve can shut down
	// gracefully.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
