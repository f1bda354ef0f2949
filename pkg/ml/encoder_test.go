package ml_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retainlab/retainx/pkg/ml"
)

func TestOneHotColumnsAreSortedDistinctCategories(t *testing.T) {
	e := ml.FitOneHot([]string{"Loyal Low Spend", "Champions", "Champions", "At-Risk High Value"})
	require.Equal(t, []string{"At-Risk High Value", "Champions", "Loyal Low Spend"}, e.Categories)
}

func TestOneHotTransformEncodesKnownValues(t *testing.T) {
	e := ml.FitOneHot([]string{"a", "b", "c"})
	out := e.Transform([]string{"b", "a", "c"})
	require.Equal(t, [][]float64{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 1},
	}, out)
}

func TestOneHotUnseenCategoryMapsToAllZeros(t *testing.T) {
	e := ml.FitOneHot([]string{"a", "b"})
	out := e.Transform([]string{"brand-new"})
	require.Equal(t, [][]float64{{0, 0}}, out)
}
