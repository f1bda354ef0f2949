package ml

import (
	"math"
	"sort"
)

// ROCAUC computes the area under the ROC curve via the rank statistic,
// averaging ranks across ties. It measures ranking quality only and is
// independent of any decision cutoff. NaN when only one class is present.
func ROCAUC(y []int, scores []float64) float64 {
	n := len(y)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && scores[idx[j]] == scores[idx[i]] {
			j++
		}
		// 1-based average rank over the tie group.
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}

	var pos int
	var rankSum float64
	for i, label := range y {
		if label == 1 {
			pos++
			rankSum += ranks[i]
		}
	}
	neg := n - pos
	if pos == 0 || neg == 0 {
		return math.NaN()
	}
	return (rankSum - float64(pos)*float64(pos+1)/2) / (float64(pos) * float64(neg))
}

// ClassMetrics is a per-class precision/recall breakdown.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarizes binary classification quality at a fixed cutoff.
// These numbers are diagnostics for humans; nothing downstream gates on
// them.
type Report struct {
	Negative ClassMetrics
	Positive ClassMetrics
	Accuracy float64
}

// Classification computes the report from labels and hard predictions.
func Classification(y, pred []int) Report {
	var tp, tn, fp, fn int
	for i := range y {
		switch {
		case y[i] == 1 && pred[i] == 1:
			tp++
		case y[i] == 0 && pred[i] == 0:
			tn++
		case y[i] == 0 && pred[i] == 1:
			fp++
		default:
			fn++
		}
	}

	r := Report{
		Positive: classMetrics(tp, fp, fn),
		Negative: classMetrics(tn, fn, fp),
	}
	if total := len(y); total > 0 {
		r.Accuracy = float64(tp+tn) / float64(total)
	}
	r.Positive.Support = tp + fn
	r.Negative.Support = tn + fp
	return r
}

func classMetrics(truePred, falsePred, missed int) ClassMetrics {
	var m ClassMetrics
	if truePred+falsePred > 0 {
		m.Precision = float64(truePred) / float64(truePred+falsePred)
	}
	if truePred+missed > 0 {
		m.Recall = float64(truePred) / float64(truePred+missed)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}
