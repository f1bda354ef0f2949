package segment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/retainlab/retainx/pkg/errs"
	"github.com/retainlab/retainx/pkg/segment"
)

func clusterableMatrix() [][]float64 {
	var x [][]float64
	for i := 0; i < 10; i++ {
		x = append(x, []float64{float64(i) * 0.01, 0})
	}
	for i := 0; i < 10; i++ {
		x = append(x, []float64{100 + float64(i)*0.01, 5})
	}
	return x
}

func TestEngineRunAssignsEveryCustomer(t *testing.T) {
	e := &segment.Engine{
		Logger:   zaptest.NewLogger(t),
		Clusters: 2,
		KMin:     2,
		KMax:     4,
		Seed:     42,
	}

	labels, sweep, err := e.Run(context.Background(), clusterableMatrix())
	require.NoError(t, err)
	require.Len(t, labels, 20)
	for _, l := range labels {
		require.GreaterOrEqual(t, l, 0)
		require.Less(t, l, 2)
	}
	require.NotEmpty(t, sweep)
}

func TestEngineRunIsDeterministic(t *testing.T) {
	e := &segment.Engine{
		Logger:   zaptest.NewLogger(t),
		Clusters: 3,
		KMin:     2,
		KMax:     5,
		Seed:     42,
	}
	x := clusterableMatrix()

	a, sweepA, err := e.Run(context.Background(), x)
	require.NoError(t, err)
	b, sweepB, err := e.Run(context.Background(), x)
	require.NoError(t, err)

	require.Equal(t, a, b)
	require.Equal(t, sweepA, sweepB)
}

func TestEngineSweepCoversConfiguredRange(t *testing.T) {
	e := &segment.Engine{
		Logger:   zaptest.NewLogger(t),
		Clusters: 2,
		KMin:     2,
		KMax:     5,
		Seed:     42,
	}

	_, sweep, err := e.Run(context.Background(), clusterableMatrix())
	require.NoError(t, err)

	ks := make([]int, len(sweep))
	for i, s := range sweep {
		ks[i] = s.K
	}
	require.Equal(t, []int{2, 3, 4, 5}, ks)
}

func TestEngineRunRejectsEmptyInput(t *testing.T) {
	e := &segment.Engine{Logger: zaptest.NewLogger(t), Clusters: 2, KMin: 2, KMax: 3, Seed: 42}
	_, _, err := e.Run(context.Background(), nil)
	require.Error(t, err)
	require.True(t, errs.IsData(err))
}

func TestEngineRunRejectsTooFewCustomers(t *testing.T) {
	e := &segment.Engine{Logger: zaptest.NewLogger(t), Clusters: 5, KMin: 2, KMax: 3, Seed: 42}
	_, _, err := e.Run(context.Background(), [][]float64{{1}, {2}})
	require.Error(t, err)
	require.True(t, errs.IsData(err))
}
