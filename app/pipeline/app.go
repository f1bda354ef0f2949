package pipeline

import (
	"context"

	"github.com/robfig/cron/v3"
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
	Cron   *cron.Cron
}

// Initialize builds the full pipeline job: segmentation followed by churn
// scoring against the same store connection.
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

// Start runs the pipeline once, or on a cron schedule when RUN_SCHEDULE
// is set. In scheduled mode a failed run is logged and the next tick
// retries from scratch, which is the pipeline's only retry mechanism.
func (a *App) Start(ctx context.Context) {
	if a.Config.RunSchedule == "" {
		if err := a.runOnce(ctx); err != nil {
			a.Logger.Fatal("Pipeline run failed", zap.Error(err))
		}
		a.Stop()
		return
	}

	a.Cron = cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := a.Cron.AddFunc(a.Config.RunSchedule, func() {
		if err := a.runOnce(ctx); err != nil {
			a.Logger.Error("Scheduled pipeline run failed", zap.Error(err))
		}
	}); err != nil {
		a.Logger.Fatal("Invalid run schedule", zap.String("schedule", a.Config.RunSchedule), zap.Error(err))
	}

	a.Cron.Start()
	a.Logger.Info("Pipeline scheduled", zap.String("schedule", a.Config.RunSchedule))
	<-ctx.Done()
	<-a.Cron.Stop().Done()
	a.Stop()
}

func (a *App) runOnce(ctx context.Context) error {
	seg := &pipeline.Segmenter{Logger: a.Logger, Config: a.Config, Store: a.Store}
	if err := seg.Run(ctx); err != nil {
		return err
	}
	chn := &pipeline.Churner{Logger: a.Logger, Config: a.Config, Store: a.Store}
	if err := chn.Run(ctx); err != nil {
		return err
	}
	a.Logger.Info("Pipeline run complete")
	return nil
}

func (a *App) Stop() {
	_ = a.Store.Close()
}
