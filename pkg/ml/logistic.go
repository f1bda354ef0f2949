package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogisticConfig tunes the gradient descent fit.
type LogisticConfig struct {
	// MaxIterations caps descent; the default is generous because the
	// class-weighted loss on skewed churn data converges slowly.
	MaxIterations int
	// LearningRate is the fixed step size. Inputs are expected to be
	// standard-scaled, which keeps a fixed step stable.
	LearningRate float64
	// Tolerance stops descent once the gradient norm falls below it.
	Tolerance float64
	// L2 is the ridge penalty weight.
	L2 float64
	// Balanced reweights classes inversely to their frequency, so the
	// minority (churned) class is not drowned out by the majority.
	Balanced bool
}

// DefaultLogisticConfig mirrors the production churn fit settings.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{
		MaxIterations: 2000,
		LearningRate:  0.1,
		Tolerance:     1e-6,
		L2:            1.0,
		Balanced:      true,
	}
}

// Logistic is a fitted binary logistic regression model.
type Logistic struct {
	Weights []float64
	Bias    float64
}

// TrainLogistic fits weights by full-batch gradient descent on the
// (optionally class-weighted) regularized log loss.
func TrainLogistic(x [][]float64, y []int, cfg LogisticConfig) (*Logistic, error) {
	n := len(x)
	if n == 0 {
		return nil, fmt.Errorf("logistic: empty training set")
	}
	if len(y) != n {
		return nil, fmt.Errorf("logistic: %d rows but %d labels", n, len(y))
	}

	var pos int
	for _, label := range y {
		if label == 1 {
			pos++
		}
	}
	neg := n - pos
	if pos == 0 || neg == 0 {
		return nil, fmt.Errorf("logistic: training labels contain a single class")
	}

	// Balanced weights: n / (2 * class count), i.e. each class contributes
	// half the total loss regardless of prevalence.
	wPos, wNeg := 1.0, 1.0
	if cfg.Balanced {
		wPos = float64(n) / (2 * float64(pos))
		wNeg = float64(n) / (2 * float64(neg))
	}

	dims := len(x[0])
	m := &Logistic{Weights: make([]float64, dims)}
	grad := make([]float64, dims)

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0

		for i, row := range x {
			p := m.Proba(row)
			sampleWeight := wNeg
			target := 0.0
			if y[i] == 1 {
				sampleWeight = wPos
				target = 1
			}
			residual := sampleWeight * (p - target)
			floats.AddScaled(grad, residual, row)
			gradBias += residual
		}

		invN := 1 / float64(n)
		floats.Scale(invN, grad)
		gradBias *= invN
		if cfg.L2 > 0 {
			floats.AddScaled(grad, cfg.L2*invN, m.Weights)
		}

		floats.AddScaled(m.Weights, -cfg.LearningRate, grad)
		m.Bias -= cfg.LearningRate * gradBias

		norm := math.Hypot(floats.Norm(grad, 2), gradBias)
		if norm < cfg.Tolerance {
			break
		}
	}

	return m, nil
}

// Proba returns P(y=1 | x).
func (m *Logistic) Proba(x []float64) float64 {
	z := m.Bias + floats.Dot(m.Weights, x)
	return 1 / (1 + math.Exp(-z))
}

// ProbaBatch scores every row.
func (m *Logistic) ProbaBatch(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = m.Proba(row)
	}
	return out
}
