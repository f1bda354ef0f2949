package models

// CustomerFeatureRow is one customer's lifetime RFM-style aggregates as
// read from the feature store. Every feature is nullable: the reader
// coerces whatever the view holds to Float64-or-NULL, and NULL turns into
// NaN at the frame boundary.
type CustomerFeatureRow struct {
	CustomerID           string   `ch:"customer_unique_id"`
	RecencyDays          *float64 `ch:"recency_days"`
	Frequency            *float64 `ch:"frequency"`
	Monetary             *float64 `ch:"monetary"`
	AvgOrderValue        *float64 `ch:"avg_order_value"`
	AvgItemsPerOrder     *float64 `ch:"avg_items_per_order"`
	AvgCategoryDiversity *float64 `ch:"avg_category_diversity"`
	TenureDays           *float64 `ch:"tenure_days"`
	AvgDaysBetweenOrders *float64 `ch:"avg_days_between_orders"`
}

// TimeFeatureRow is one customer's time-windowed activity aggregates.
// NULL here means no activity in the window, which downstream cleaning
// maps to zero, not to an imputed value.
type TimeFeatureRow struct {
	CustomerID       string   `ch:"customer_unique_id"`
	Spend30d         *float64 `ch:"spend_30d"`
	Spend90d         *float64 `ch:"spend_90d"`
	Spend180d        *float64 `ch:"spend_180d"`
	Orders30d        *float64 `ch:"orders_30d"`
	Orders90d        *float64 `ch:"orders_90d"`
	Orders180d       *float64 `ch:"orders_180d"`
	RecentOrderRatio *float64 `ch:"recent_order_ratio"`
	RecentSpendRatio *float64 `ch:"recent_spend_ratio"`
}

// SegmentNameRow maps a customer to its segment label, as read back from
// the customer_segments table by the churn stage.
type SegmentNameRow struct {
	CustomerID  string `ch:"customer_unique_id"`
	SegmentName string `ch:"segment_name"`
}

// CustomerSegmentRow is one row of the customer_segments output table:
// the cluster assignment plus every business metric in original units.
type CustomerSegmentRow struct {
	CustomerID           string  `ch:"customer_unique_id"`
	Segment              int32   `ch:"segment"`
	SegmentName          string  `ch:"segment_name"`
	RecencyDays          float64 `ch:"recency_days"`
	Frequency            float64 `ch:"frequency"`
	Monetary             float64 `ch:"monetary"`
	AvgOrderValue        float64 `ch:"avg_order_value"`
	AvgItemsPerOrder     float64 `ch:"avg_items_per_order"`
	AvgCategoryDiversity float64 `ch:"avg_category_diversity"`
	TenureDays           float64 `ch:"tenure_days"`
	AvgDaysBetweenOrders float64 `ch:"avg_days_between_orders"`
}

// SegmentProfileRow is one row of the segment_profile output table.
type SegmentProfileRow struct {
	Segment              int32   `ch:"segment"`
	Customers            uint64  `ch:"customers"`
	Share                float64 `ch:"share"`
	RecencyDays          float64 `ch:"recency_days"`
	Frequency            float64 `ch:"frequency"`
	Monetary             float64 `ch:"monetary"`
	AvgOrderValue        float64 `ch:"avg_order_value"`
	AvgItemsPerOrder     float64 `ch:"avg_items_per_order"`
	AvgCategoryDiversity float64 `ch:"avg_category_diversity"`
	TenureDays           float64 `ch:"tenure_days"`
	AvgDaysBetweenOrders float64 `ch:"avg_days_between_orders"`
	RecencyRank          int32   `ch:"recency_rank"`
	ValueRank            int32   `ch:"value_rank"`
	FreqRank             int32   `ch:"freq_rank"`
	SegmentName          string  `ch:"segment_name"`
}

// ChurnScoreRow is one row of the customer_churn_scores output table.
// Only the leakage-safe 30/90-day windows are stored; the 180-day windows
// never leave the feature store.
type ChurnScoreRow struct {
	CustomerID           string  `ch:"customer_unique_id"`
	SegmentName          string  `ch:"segment_name"`
	Churned              uint8   `ch:"churned"`
	ChurnRisk            float64 `ch:"churn_risk"`
	ValueAtRisk          float64 `ch:"value_at_risk"`
	RecencyDays          float64 `ch:"recency_days"`
	Frequency            float64 `ch:"frequency"`
	Monetary             float64 `ch:"monetary"`
	AvgOrderValue        float64 `ch:"avg_order_value"`
	AvgItemsPerOrder     float64 `ch:"avg_items_per_order"`
	AvgCategoryDiversity float64 `ch:"avg_category_diversity"`
	TenureDays           float64 `ch:"tenure_days"`
	AvgDaysBetweenOrders float64 `ch:"avg_days_between_orders"`
	Orders30d            float64 `ch:"orders_30d"`
	Orders90d            float64 `ch:"orders_90d"`
	Spend30d             float64 `ch:"spend_30d"`
	Spend90d             float64 `ch:"spend_90d"`
	RiskDecile           uint8   `ch:"risk_decile"`
	RiskBand             uint8   `ch:"risk_band"`
	ValueBand            uint8   `ch:"value_band"`
	PriorityBand         string  `ch:"priority_band"`
}
