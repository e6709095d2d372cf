// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Command example runs the example catalogue, e.g.
//
//	go run ./example list
//	go run ./example run 1.1 6.2
//	RXEX_TICK=200ms go run ./example run --run-for 2s 5.2
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
