package features

import (
	"math"
	"sort"

	"github.com/retainlab/retainx/pkg/frame"
)

// GapSentinel stands in for avg_days_between_orders when a customer never
// repurchased. It has to rank as "longest gap" against every real
// observation so the never-repurchased signal survives cleaning instead of
// being averaged away.
const GapSentinel = 9999

// CleanConfig parameterizes lifetime-feature cleaning.
type CleanConfig struct {
	// Required columns must be present with at least one usable value;
	// a column nobody can impute from is a data error.
	Required []string

	// GapColumn gets GapSentinel instead of the median when missing.
	GapColumn string

	// LogColumns are right-skewed spend columns; cleaning adds a
	// log(1+x)-transformed "<name>_log" companion for each and keeps the
	// original untouched.
	LogColumns []string
}

// DefaultCleanConfig matches the feature store's lifetime view.
func DefaultCleanConfig() CleanConfig {
	return CleanConfig{
		Required:   LifetimeColumns,
		GapColumn:  ColAvgDaysBetween,
		LogColumns: []string{ColMonetary, ColAvgOrderValue},
	}
}

// Clean prepares lifetime features in place: sentinel-fills the
// repeat-purchase gap, median-imputes every other required column from the
// current population, and adds log companions for the spend columns.
// Cleaning an already-clean frame is a no-op, so the operation is
// idempotent for a given input.
func Clean(f *frame.Frame, cfg CleanConfig) error {
	if err := f.Require(cfg.Required...); err != nil {
		return err
	}

	if cfg.GapColumn != "" && f.Has(cfg.GapColumn) {
		col := f.Column(cfg.GapColumn)
		for i, v := range col {
			if math.IsNaN(v) {
				col[i] = GapSentinel
			}
		}
	}

	for _, name := range cfg.Required {
		col := f.Column(name)
		med := math.NaN()
		for i, v := range col {
			if !math.IsNaN(v) {
				continue
			}
			if math.IsNaN(med) {
				med = Median(col)
			}
			col[i] = med
		}
	}

	for _, name := range cfg.LogColumns {
		src := f.Column(name)
		if src == nil {
			continue
		}
		logged := make([]float64, len(src))
		for i, v := range src {
			logged[i] = math.Log1p(v)
		}
		f.Set(name+"_log", logged)
	}

	return nil
}

// ZeroFill replaces missing values with zero in the named columns. Used
// for time-windowed features, where absence means "no activity in window"
// rather than an unknown value. Columns absent from the frame are created
// as all-zero, matching the left-join semantics of the feature store.
func ZeroFill(f *frame.Frame, names ...string) {
	for _, name := range names {
		col := f.Column(name)
		if col == nil {
			col = make([]float64, f.Len())
			f.Set(name, col)
			continue
		}
		for i, v := range col {
			if math.IsNaN(v) {
				col[i] = 0
			}
		}
	}
}

// Median returns the NaN-skipping median: the middle observation, or the
// mean of the two middle observations for an even count. NaN when no
// usable values exist.
func Median(values []float64) float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}
	sort.Float64s(clean)
	mid := len(clean) / 2
	if len(clean)%2 == 1 {
		return clean[mid]
	}
	return (clean[mid-1] + clean[mid]) / 2
}
