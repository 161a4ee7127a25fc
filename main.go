package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"imagehost/internal/cli"
	"imagehost/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		stop()
		logging.Fatal("%v", err)
	}
}
