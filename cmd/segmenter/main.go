package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/retainlab/retainx/app/segmenter"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	defer cancel()

	app := segmenter.Initialize(ctx)

	app.Start(ctx)
}
