package churn

import (
	"context"

	"go.uber.org/zap"

	"github.com/retainlab/retainx/pkg/config"
	"github.com/retainlab/retainx/pkg/db"
	"github.com/retainlab/retainx/pkg/logging"
	"github.com/retainlab/retainx/pkg/pipeline"
)

type App struct {
	Logger *zap.Logger
	Config config.Config
	Store  *db.DB
}

// Initialize builds the churn-scoring batch job.
func Initialize(ctx context.Context) *App {
	logger, err := logging.New()
	if err != nil {
		panic(err)
	}

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	store, err := db.New(ctx, logger, cfg.Database)
	if err != nil {
		logger.Fatal("Unable to connect to analytics store", zap.Error(err))
	}

	return &App{Logger: logger, Config: cfg, Store: store}
}

// Start runs one churn-scoring pass and exits.
func (a *App) Start(ctx context.Context) {
	run := &pipeline.Churner{Logger: a.Logger, Config: a.Config, Store: a.Store}
	if err := run.Run(ctx); err != nil {
		a.Logger.Fatal("Churn scoring run failed", zap.Error(err))
	}
	a.Logger.Info("Churn scoring run complete")
	a.Stop()
}

func (a *App) Stop() {
	_ = a.Store.Close()
}
