package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"thoughtgraph/interfaces/cli"
)

func main() {
	// Cancelled on interrupt so the graph view and exports stop cleanly
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
