// ABOUTME: Main entry point for the market radar report job
// ABOUTME: Parses the command line and cancels the run on SIGINT or SIGTERM

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "radar: %v\n", err)
		stop()
		os.Exit(1)
	}
}
