package features

// Feature store column names. The reader ignores anything not listed here.
const (
	ColRecencyDays       = "recency_days"
	ColFrequency         = "frequency"
	ColMonetary          = "monetary"
	ColAvgOrderValue     = "avg_order_value"
	ColAvgItemsPerOrder  = "avg_items_per_order"
	ColAvgCatDiversity   = "avg_category_diversity"
	ColTenureDays        = "tenure_days"
	ColAvgDaysBetween    = "avg_days_between_orders"
	ColMonetaryLog       = "monetary_log"
	ColAvgOrderValueLog  = "avg_order_value_log"
	ColSpend30d          = "spend_30d"
	ColSpend90d          = "spend_90d"
	ColSpend180d         = "spend_180d"
	ColOrders30d         = "orders_30d"
	ColOrders90d         = "orders_90d"
	ColOrders180d        = "orders_180d"
	ColRecentOrderRatio  = "recent_order_ratio"
	ColRecentSpendRatio  = "recent_spend_ratio"
)

// LifetimeColumns are the per-customer RFM-style aggregates cleaned with
// median imputation (except the repeat-purchase gap, which keeps its
// sentinel semantics).
var LifetimeColumns = []string{
	ColRecencyDays,
	ColFrequency,
	ColMonetary,
	ColAvgOrderValue,
	ColAvgItemsPerOrder,
	ColAvgCatDiversity,
	ColTenureDays,
	ColAvgDaysBetween,
}

// ClusteringColumns feed the segmentation engine. Spend columns enter in
// log form; the untransformed originals stay on the frame for reporting.
var ClusteringColumns = []string{
	ColRecencyDays,
	ColFrequency,
	ColMonetaryLog,
	ColAvgOrderValueLog,
	ColAvgItemsPerOrder,
	ColAvgCatDiversity,
	ColTenureDays,
	ColAvgDaysBetween,
}

// ModelLifetimeColumns are the lifetime features the churn model trains
// on. Recency is excluded: the churn label is defined from it, so feeding
// it back in would let the model read its own answer.
var ModelLifetimeColumns = []string{
	ColFrequency,
	ColMonetary,
	ColAvgOrderValue,
	ColAvgItemsPerOrder,
	ColAvgCatDiversity,
	ColTenureDays,
	ColAvgDaysBetween,
}

// ModelTimeColumns are the time-windowed features the churn model uses.
// The 180-day windows are deliberately excluded: they overlap the 180-day
// churn label and would leak it.
var ModelTimeColumns = []string{
	ColSpend30d,
	ColSpend90d,
	ColOrders30d,
	ColOrders90d,
}
