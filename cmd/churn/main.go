package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/retainlab/retainx/app/churn"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	defer cancel()

	app := churn.Initialize(ctx)

	app.Start(ctx)
}
