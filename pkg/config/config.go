package config

import (
	"github.com/retainlab/retainx/pkg/errs"
	"github.com/retainlab/retainx/pkg/utils"
)

// Config carries every tunable of a pipeline run. It is built once at
// startup from the environment, validated, and then passed around as an
// immutable value so components stay testable without environment setup.
type Config struct {
	// Database is the analytics database holding both the feature store
	// views and the result tables.
	Database string

	// Clusters is the cluster count of the final segmentation fit.
	Clusters int

	// KMin/KMax bound the silhouette sweep over candidate cluster counts.
	KMin int
	KMax int

	// Seed fixes centroid seeding, the train/test shuffle and every other
	// randomized step so a run is reproducible for identical input.
	Seed int64

	// ChurnThresholdDays defines the churn label: a customer whose last
	// order is at least this many days old counts as churned.
	ChurnThresholdDays float64

	// TestFraction is the held-out share of the stratified train/test split.
	TestFraction float64

	// MaxIterations caps the classifier's gradient descent.
	MaxIterations int

	// RunSchedule is an optional cron expression. Empty means a single
	// batch run; otherwise the pipeline repeats on the schedule.
	RunSchedule string
}

// FromEnv assembles the run configuration from environment variables.
func FromEnv() Config {
	return Config{
		Database:           utils.Env("ANALYTICS_DB", "analytics"),
		Clusters:           utils.EnvInt("SEGMENT_CLUSTERS", 5),
		KMin:               utils.EnvInt("SEGMENT_K_MIN", 2),
		KMax:               utils.EnvInt("SEGMENT_K_MAX", 10),
		Seed:               utils.EnvInt64("RANDOM_SEED", 42),
		ChurnThresholdDays: utils.EnvFloat("CHURN_THRESHOLD_DAYS", 180),
		TestFraction:       utils.EnvFloat("CHURN_TEST_FRACTION", 0.2),
		MaxIterations:      utils.EnvInt("CHURN_MAX_ITERATIONS", 2000),
		RunSchedule:        utils.Env("RUN_SCHEDULE", ""),
	}
}

// Validate rejects parameter combinations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Clusters < 2 {
		return errs.Configurationf("cluster count must be at least 2, got %d", c.Clusters)
	}
	if c.KMin < 2 {
		return errs.Configurationf("k sweep lower bound must be at least 2, got %d", c.KMin)
	}
	if c.KMax < c.KMin {
		return errs.Configurationf("k sweep range inverted: [%d, %d]", c.KMin, c.KMax)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return errs.Configurationf("test fraction must be in (0, 1), got %g", c.TestFraction)
	}
	if c.ChurnThresholdDays <= 0 {
		return errs.Configurationf("churn threshold must be positive, got %g", c.ChurnThresholdDays)
	}
	if c.MaxIterations <= 0 {
		return errs.Configurationf("iteration cap must be positive, got %d", c.MaxIterations)
	}
	return nil
}
