package segment

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/retainlab/retainx/pkg/errs"
	"github.com/retainlab/retainx/pkg/features"
	"github.com/retainlab/retainx/pkg/frame"
)

// Profile aggregates one segment's business metrics in original units.
// The log-transformed clustering columns never appear here: profiles are
// for humans and reporting tools.
type Profile struct {
	Segment              int
	Customers            int
	Share                float64
	RecencyDays          float64
	Frequency            float64
	Monetary             float64
	AvgOrderValue        float64
	AvgItemsPerOrder     float64
	AvgCategoryDiversity float64
	TenureDays           float64
	AvgDaysBetweenOrders float64

	// Dense ranks across segments; 1 is always "best" on the axis.
	RecencyRank int
	ValueRank   int
	FreqRank    int

	Name string
}

// BuildProfiles groups cleaned customers by cluster label, averages the
// original-unit metrics, and attaches the three naming ranks.
func BuildProfiles(f *frame.Frame, labels []int) ([]Profile, error) {
	if f.Len() != len(labels) {
		return nil, errs.Dataf("profile input mismatch: %d rows, %d labels", f.Len(), len(labels))
	}
	if f.Len() == 0 {
		return nil, errs.Dataf("profile input is empty")
	}

	segments := make(map[int][]int)
	for i, label := range labels {
		segments[label] = append(segments[label], i)
	}
	ids := make([]int, 0, len(segments))
	for label := range segments {
		ids = append(ids, label)
	}
	sort.Ints(ids)

	total := float64(f.Len())
	profiles := make([]Profile, len(ids))
	for i, label := range ids {
		rows := segments[label]
		profiles[i] = Profile{
			Segment:              label,
			Customers:            len(rows),
			Share:                float64(len(rows)) / total,
			RecencyDays:          meanOf(f, features.ColRecencyDays, rows),
			Frequency:            meanOf(f, features.ColFrequency, rows),
			Monetary:             meanOf(f, features.ColMonetary, rows),
			AvgOrderValue:        meanOf(f, features.ColAvgOrderValue, rows),
			AvgItemsPerOrder:     meanOf(f, features.ColAvgItemsPerOrder, rows),
			AvgCategoryDiversity: meanOf(f, features.ColAvgCatDiversity, rows),
			TenureDays:           meanOf(f, features.ColTenureDays, rows),
			AvgDaysBetweenOrders: meanOf(f, features.ColAvgDaysBetween, rows),
		}
	}

	recency := make([]float64, len(profiles))
	monetary := make([]float64, len(profiles))
	frequency := make([]float64, len(profiles))
	for i, p := range profiles {
		recency[i] = p.RecencyDays
		monetary[i] = p.Monetary
		frequency[i] = p.Frequency
	}

	// Lower recency is better; higher monetary and frequency are better.
	recencyRanks := DenseRank(recency, true)
	valueRanks := DenseRank(monetary, false)
	freqRanks := DenseRank(frequency, false)
	for i := range profiles {
		profiles[i].RecencyRank = recencyRanks[i]
		profiles[i].ValueRank = valueRanks[i]
		profiles[i].FreqRank = freqRanks[i]
	}

	return profiles, nil
}

// DenseRank assigns rank 1 to the best value (smallest when ascending,
// largest otherwise). Ties share a rank and the next distinct value gets
// the next integer, so the assigned ranks are always a gapless prefix of
// 1..k.
func DenseRank(values []float64, ascending bool) []int {
	distinct := append([]float64(nil), values...)
	sort.Float64s(distinct)
	distinct = dedupe(distinct)
	if !ascending {
		for i, j := 0, len(distinct)-1; i < j; i, j = i+1, j-1 {
			distinct[i], distinct[j] = distinct[j], distinct[i]
		}
	}

	rank := make(map[float64]int, len(distinct))
	for i, v := range distinct {
		rank[v] = i + 1
	}

	out := make([]int, len(values))
	for i, v := range values {
		out[i] = rank[v]
	}
	return out
}

func dedupe(sorted []float64) []float64 {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

func meanOf(f *frame.Frame, col string, rows []int) float64 {
	values := f.Column(col)
	subset := make([]float64, len(rows))
	for i, r := range rows {
		subset[i] = values[r]
	}
	return stat.Mean(subset, nil)
}
