package frame_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retainlab/retainx/pkg/errs"
	"github.com/retainlab/retainx/pkg/frame"
)

func TestRequireReportsMissingColumn(t *testing.T) {
	f := frame.New([]string{"a", "b"})
	f.Set("present", []float64{1, 2})

	err := f.Require("present", "absent")
	require.Error(t, err)
	require.True(t, errs.IsData(err))
	require.Contains(t, err.Error(), "absent")
}

func TestRequireRejectsAllNaNColumn(t *testing.T) {
	f := frame.New([]string{"a", "b"})
	f.Set("empty", []float64{math.NaN(), math.NaN()})

	err := f.Require("empty")
	require.Error(t, err)
	require.True(t, errs.IsData(err))
}

func TestMatrixAssemblesRowMajor(t *testing.T) {
	f := frame.New([]string{"a", "b", "c"})
	f.Set("x", []float64{1, 2, 3})
	f.Set("y", []float64{4, 5, 6})

	m, err := f.Matrix("y", "x")
	require.NoError(t, err)
	require.Equal(t, [][]float64{{4, 1}, {5, 2}, {6, 3}}, m)
}

func TestMatrixMissingColumn(t *testing.T) {
	f := frame.New([]string{"a"})
	f.Set("x", []float64{1})

	_, err := f.Matrix("x", "missing")
	require.Error(t, err)
	require.True(t, errs.IsData(err))
}

func TestCloneIsDeep(t *testing.T) {
	f := frame.New([]string{"a", "b"})
	f.Set("x", []float64{1, 2})

	clone := f.Clone()
	clone.Column("x")[0] = 99

	require.Equal(t, 1.0, f.Column("x")[0])
	require.Equal(t, f.Columns(), clone.Columns())
}
