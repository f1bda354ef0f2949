package ml_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retainlab/retainx/pkg/ml"
)

func TestStratifiedSplitPreservesClassBalance(t *testing.T) {
	// 80 negatives, 20 positives.
	y := make([]int, 100)
	for i := 80; i < 100; i++ {
		y[i] = 1
	}

	train, test, err := ml.StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)
	require.Len(t, test, 20)
	require.Len(t, train, 80)

	var testPos int
	for _, i := range test {
		testPos += y[i]
	}
	require.Equal(t, 4, testPos)

	seen := make(map[int]bool)
	for _, i := range append(append([]int(nil), train...), test...) {
		require.False(t, seen[i], "row %d assigned twice", i)
		seen[i] = true
	}
	require.Len(t, seen, 100)
}

func TestStratifiedSplitDeterministicForFixedSeed(t *testing.T) {
	y := make([]int, 50)
	for i := 0; i < 10; i++ {
		y[i] = 1
	}

	trainA, testA, err := ml.StratifiedSplit(y, 0.2, 7)
	require.NoError(t, err)
	trainB, testB, err := ml.StratifiedSplit(y, 0.2, 7)
	require.NoError(t, err)

	require.Equal(t, trainA, trainB)
	require.Equal(t, testA, testB)
}

func TestStratifiedSplitRejectsSingleClass(t *testing.T) {
	_, _, err := ml.StratifiedSplit([]int{1, 1, 1, 1}, 0.2, 42)
	require.Error(t, err)
}

func TestStratifiedSplitRejectsBadFraction(t *testing.T) {
	y := []int{0, 0, 1, 1}
	for _, frac := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := ml.StratifiedSplit(y, frac, 42)
		require.Error(t, err, "fraction %g", frac)
	}
}
