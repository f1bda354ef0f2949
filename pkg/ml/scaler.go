package ml

import (
	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes columns to zero mean and unit variance. Fit and
// Transform are separate on purpose: the scaler is fit only on the data it
// is allowed to see (the current run for clustering, the training split
// for the churn model) and then applied as a pure function everywhere
// else, so no statistics leak across populations.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler computes per-column mean and standard deviation.
func FitScaler(x [][]float64) *Scaler {
	if len(x) == 0 {
		return &Scaler{}
	}
	dims := len(x[0])
	s := &Scaler{
		Mean:  make([]float64, dims),
		Scale: make([]float64, dims),
	}
	col := make([]float64, len(x))
	for j := 0; j < dims; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		s.Scale[j] = stat.PopStdDev(col, nil)
		if s.Scale[j] == 0 {
			// Constant column: center it, leave the spread alone.
			s.Scale[j] = 1
		}
	}
	return s
}

// Transform returns a standardized copy of x using the fitted moments.
func (s *Scaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out
}
