// Package main is entrypoint for the application
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tavern/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(code)
}
