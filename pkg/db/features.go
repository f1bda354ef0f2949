package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/retainlab/retainx/pkg/db/models"
	"github.com/retainlab/retainx/pkg/errs"
)

// Feature store views. Extra columns on the views are ignored; the reader
// selects exactly what the pipeline is contracted to receive.
const (
	CustomerFeaturesView = "customer_rfm"
	TimeFeaturesView     = "customer_time_features"
)

// num coerces a view column to Float64-or-NULL, so values that fail
// numeric coercion arrive as missing instead of failing the read.
func num(col string) string {
	return fmt.Sprintf("toFloat64OrNull(toString(%s)) AS %s", col, col)
}

// CustomerFeatures reads the lifetime RFM aggregates, one row per
// customer.
func (db *DB) CustomerFeatures(ctx context.Context) ([]models.CustomerFeatureRow, error) {
	query := fmt.Sprintf(`
		SELECT
			customer_unique_id,
			%s, %s, %s, %s, %s, %s, %s, %s
		FROM "%s"."%s"
	`,
		num("recency_days"), num("frequency"), num("monetary"), num("avg_order_value"),
		num("avg_items_per_order"), num("avg_category_diversity"), num("tenure_days"),
		num("avg_days_between_orders"),
		db.Name, CustomerFeaturesView)

	var rows []models.CustomerFeatureRow
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, errs.Connectivityf("read %s: %v", CustomerFeaturesView, err)
	}
	if len(rows) == 0 {
		return nil, errs.Dataf("%s is empty", CustomerFeaturesView)
	}
	return rows, nil
}

// TimeFeatures reads the time-windowed activity aggregates. Customers
// absent here simply had no recent activity; the join back onto the
// lifetime population keeps them.
func (db *DB) TimeFeatures(ctx context.Context) ([]models.TimeFeatureRow, error) {
	query := fmt.Sprintf(`
		SELECT
			customer_unique_id,
			%s, %s, %s, %s, %s, %s, %s, %s
		FROM "%s"."%s"
	`,
		num("spend_30d"), num("spend_90d"), num("spend_180d"),
		num("orders_30d"), num("orders_90d"), num("orders_180d"),
		num("recent_order_ratio"), num("recent_spend_ratio"),
		db.Name, TimeFeaturesView)

	var rows []models.TimeFeatureRow
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, errs.Connectivityf("read %s: %v", TimeFeaturesView, err)
	}
	return rows, nil
}

// SegmentNames reads the segment labels written by the segmentation
// stage. A missing or empty segments table is fine: the churn model then
// falls back to the Unknown segment for everyone.
func (db *DB) SegmentNames(ctx context.Context) ([]models.SegmentNameRow, error) {
	query := fmt.Sprintf(`
		SELECT customer_unique_id, segment_name
		FROM "%s"."%s"
	`, db.Name, SegmentsTable)

	var rows []models.SegmentNameRow
	if err := db.Select(ctx, &rows, query); err != nil {
		var exception *clickhouse.Exception
		if errors.As(err, &exception) && exception.Code == unknownTableCode {
			return nil, nil
		}
		return nil, errs.Connectivityf("read %s: %v", SegmentsTable, err)
	}
	return rows, nil
}

// ClickHouse server error code for a table that does not exist.
const unknownTableCode = 60
