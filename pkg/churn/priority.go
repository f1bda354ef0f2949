package churn

import "github.com/retainlab/retainx/pkg/ml"

// Priority bands for outreach.
const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// TertileBands splits the population into three near-equal groups by the
// given value, band 1 being the highest third. Cut points come from the
// scored population's own distribution, so bands are reproducible only
// for an unchanged population and model.
func TertileBands(values []float64) []int {
	bands := ml.QuantileBands(values, 3)
	out := make([]int, len(bands))
	for i, b := range bands {
		out[i] = 3 - b
	}
	return out
}

// RiskDeciles assigns each customer a 0-9 decile by churn risk, 9 being
// the riskiest tenth. Used for the lift diagnostic and stored alongside
// the scores.
func RiskDeciles(risk []float64) []int {
	return ml.QuantileBands(risk, 10)
}

// Priority combines the risk and value tertiles into an outreach band.
// Pure function of the pair; every combination maps to exactly one band.
func Priority(riskBand, valueBand int) string {
	switch {
	case riskBand == 1 && valueBand == 1:
		return PriorityHigh
	case riskBand == 1 && valueBand == 2:
		return PriorityMedium
	case riskBand == 2 && valueBand == 1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ValueAtRisk is the expected revenue loss: lifetime spend weighted by
// churn probability.
func ValueAtRisk(monetary, risk float64) float64 {
	return monetary * risk
}

// LiftTable computes the observed churn rate per risk decile. Decile 9
// should carry the highest rate when the model ranks well; the table is
// logged for review, never acted on.
func LiftTable(deciles, churned []int) [10]float64 {
	var counts, hits [10]int
	for i, d := range deciles {
		counts[d]++
		hits[d] += churned[i]
	}
	var rates [10]float64
	for d := range rates {
		if counts[d] > 0 {
			rates[d] = float64(hits[d]) / float64(counts[d])
		}
	}
	return rates
}
