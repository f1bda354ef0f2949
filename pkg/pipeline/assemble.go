package pipeline

import (
	"math"

	"github.com/retainlab/retainx/pkg/db/models"
	"github.com/retainlab/retainx/pkg/features"
	"github.com/retainlab/retainx/pkg/frame"
)

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// lifetimeFrame turns feature store rows into a frame, NULLs becoming NaN.
func lifetimeFrame(rows []models.CustomerFeatureRow) *frame.Frame {
	ids := make([]string, len(rows))
	cols := map[string][]float64{
		features.ColRecencyDays:      make([]float64, len(rows)),
		features.ColFrequency:        make([]float64, len(rows)),
		features.ColMonetary:         make([]float64, len(rows)),
		features.ColAvgOrderValue:    make([]float64, len(rows)),
		features.ColAvgItemsPerOrder: make([]float64, len(rows)),
		features.ColAvgCatDiversity:  make([]float64, len(rows)),
		features.ColTenureDays:       make([]float64, len(rows)),
		features.ColAvgDaysBetween:   make([]float64, len(rows)),
	}
	for i, r := range rows {
		ids[i] = r.CustomerID
		cols[features.ColRecencyDays][i] = deref(r.RecencyDays)
		cols[features.ColFrequency][i] = deref(r.Frequency)
		cols[features.ColMonetary][i] = deref(r.Monetary)
		cols[features.ColAvgOrderValue][i] = deref(r.AvgOrderValue)
		cols[features.ColAvgItemsPerOrder][i] = deref(r.AvgItemsPerOrder)
		cols[features.ColAvgCatDiversity][i] = deref(r.AvgCategoryDiversity)
		cols[features.ColTenureDays][i] = deref(r.TenureDays)
		cols[features.ColAvgDaysBetween][i] = deref(r.AvgDaysBetweenOrders)
	}

	f := frame.New(ids)
	for _, name := range features.LifetimeColumns {
		f.Set(name, cols[name])
	}
	return f
}

// joinTimeFeatures left-joins the time-windowed view onto the lifetime
// population: every lifetime customer keeps a row, customers without
// recent activity get all-NaN windows (zero after cleaning).
func joinTimeFeatures(f *frame.Frame, rows []models.TimeFeatureRow) {
	byID := make(map[string]models.TimeFeatureRow, len(rows))
	for _, r := range rows {
		byID[r.CustomerID] = r
	}

	n := f.Len()
	cols := map[string][]float64{
		features.ColSpend30d:         make([]float64, n),
		features.ColSpend90d:         make([]float64, n),
		features.ColSpend180d:        make([]float64, n),
		features.ColOrders30d:        make([]float64, n),
		features.ColOrders90d:        make([]float64, n),
		features.ColOrders180d:       make([]float64, n),
		features.ColRecentOrderRatio: make([]float64, n),
		features.ColRecentSpendRatio: make([]float64, n),
	}
	for i, id := range f.IDs() {
		r, ok := byID[id]
		if !ok {
			r = models.TimeFeatureRow{}
		}
		cols[features.ColSpend30d][i] = deref(r.Spend30d)
		cols[features.ColSpend90d][i] = deref(r.Spend90d)
		cols[features.ColSpend180d][i] = deref(r.Spend180d)
		cols[features.ColOrders30d][i] = deref(r.Orders30d)
		cols[features.ColOrders90d][i] = deref(r.Orders90d)
		cols[features.ColOrders180d][i] = deref(r.Orders180d)
		cols[features.ColRecentOrderRatio][i] = deref(r.RecentOrderRatio)
		cols[features.ColRecentSpendRatio][i] = deref(r.RecentSpendRatio)
	}
	for _, name := range []string{
		features.ColSpend30d, features.ColSpend90d, features.ColSpend180d,
		features.ColOrders30d, features.ColOrders90d, features.ColOrders180d,
		features.ColRecentOrderRatio, features.ColRecentSpendRatio,
	} {
		f.Set(name, cols[name])
	}
}
