package features_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retainlab/retainx/pkg/errs"
	"github.com/retainlab/retainx/pkg/features"
	"github.com/retainlab/retainx/pkg/frame"
)

func syntheticCustomers(t *testing.T) *frame.Frame {
	t.Helper()
	n := 10
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("c%02d", i)
	}
	f := frame.New(ids)
	for _, col := range features.LifetimeColumns {
		values := make([]float64, n)
		for i := range values {
			values[i] = float64(10 + i)
		}
		f.Set(col, values)
	}
	return f
}

func TestCleanKeepsNoRepeatSignalAsSentinel(t *testing.T) {
	f := syntheticCustomers(t)
	// One single-order customer: the gap column is absent, not noise.
	f.Column(features.ColAvgDaysBetween)[3] = math.NaN()

	require.NoError(t, features.Clean(f, features.DefaultCleanConfig()))

	require.Equal(t, float64(features.GapSentinel), f.Column(features.ColAvgDaysBetween)[3])
	// Never the column median.
	require.NotEqual(t, features.Median(f.Column(features.ColAvgDaysBetween)), f.Column(features.ColAvgDaysBetween)[3])
}

func TestCleanMedianImputesOtherColumns(t *testing.T) {
	f := frame.New([]string{"a", "b", "c", "d"})
	for _, col := range features.LifetimeColumns {
		f.Set(col, []float64{10, 20, 30, 40})
	}
	f.Set(features.ColTenureDays, []float64{10, 20, 30, math.NaN()})

	require.NoError(t, features.Clean(f, features.DefaultCleanConfig()))

	require.Equal(t, 20.0, f.Column(features.ColTenureDays)[3])
}

func TestCleanIsIdempotent(t *testing.T) {
	f := syntheticCustomers(t)
	f.Column(features.ColAvgDaysBetween)[0] = math.NaN()
	f.Column(features.ColMonetary)[5] = math.NaN()

	require.NoError(t, features.Clean(f, features.DefaultCleanConfig()))
	snapshot := f.Clone()

	require.NoError(t, features.Clean(f, features.DefaultCleanConfig()))

	for _, col := range f.Columns() {
		require.Equal(t, snapshot.Column(col), f.Column(col), "column %s changed on second clean", col)
	}
}

func TestCleanAddsLogColumnsAndKeepsOriginals(t *testing.T) {
	f := syntheticCustomers(t)
	original := append([]float64(nil), f.Column(features.ColMonetary)...)

	require.NoError(t, features.Clean(f, features.DefaultCleanConfig()))

	require.Equal(t, original, f.Column(features.ColMonetary))
	logged := f.Column(features.ColMonetaryLog)
	require.NotNil(t, logged)
	for i, v := range original {
		require.InDelta(t, math.Log1p(v), logged[i], 1e-12)
	}
}

func TestCleanFailsOnMissingRequiredColumn(t *testing.T) {
	f := frame.New([]string{"a"})
	f.Set(features.ColRecencyDays, []float64{5})

	err := features.Clean(f, features.DefaultCleanConfig())
	require.Error(t, err)
	require.True(t, errs.IsData(err))
}

func TestZeroFillTreatsAbsenceAsNoActivity(t *testing.T) {
	f := frame.New([]string{"a", "b"})
	f.Set(features.ColSpend30d, []float64{math.NaN(), 12.5})

	features.ZeroFill(f, features.ColSpend30d, features.ColOrders30d)

	require.Equal(t, []float64{0, 12.5}, f.Column(features.ColSpend30d))
	// Column absent from the store entirely: created as all-zero.
	require.Equal(t, []float64{0, 0}, f.Column(features.ColOrders30d))
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd count", []float64{30, 10, 20}, 20},
		{"even count", []float64{40, 10, 30, 20}, 25},
		{"skips NaN", []float64{10, 20, 30, math.NaN()}, 20},
		{"single", []float64{7}, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, features.Median(tc.values))
		})
	}

	require.True(t, math.IsNaN(features.Median([]float64{math.NaN()})))
}
