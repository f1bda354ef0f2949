package db

import (
	"context"
	"fmt"

	"github.com/retainlab/retainx/pkg/db/models"
	"github.com/retainlab/retainx/pkg/errs"
)

// Result tables. Each run drops and recreates them as a whole: the
// pipeline computes everything in memory first, so the sink only ever
// holds a complete, consistent run.
const (
	SegmentsTable    = "customer_segments"
	ProfilesTable    = "segment_profile"
	ChurnScoresTable = "customer_churn_scores"
)

const segmentsSchema = `
	customer_unique_id      String,
	segment                 Int32,
	segment_name            String,
	recency_days            Float64,
	frequency               Float64,
	monetary                Float64,
	avg_order_value         Float64,
	avg_items_per_order     Float64,
	avg_category_diversity  Float64,
	tenure_days             Float64,
	avg_days_between_orders Float64
`

const profilesSchema = `
	segment                 Int32,
	customers               UInt64,
	share                   Float64,
	recency_days            Float64,
	frequency               Float64,
	monetary                Float64,
	avg_order_value         Float64,
	avg_items_per_order     Float64,
	avg_category_diversity  Float64,
	tenure_days             Float64,
	avg_days_between_orders Float64,
	recency_rank            Int32,
	value_rank              Int32,
	freq_rank               Int32,
	segment_name            String
`

const churnScoresSchema = `
	customer_unique_id      String,
	segment_name            String,
	churned                 UInt8,
	churn_risk              Float64,
	value_at_risk           Float64,
	recency_days            Float64,
	frequency               Float64,
	monetary                Float64,
	avg_order_value         Float64,
	avg_items_per_order     Float64,
	avg_category_diversity  Float64,
	tenure_days             Float64,
	avg_days_between_orders Float64,
	orders_30d              Float64,
	orders_90d              Float64,
	spend_30d               Float64,
	spend_90d               Float64,
	risk_decile             UInt8,
	risk_band               UInt8,
	value_band              UInt8,
	priority_band           String
`

// recreate drops and recreates a result table.
func (db *DB) recreate(ctx context.Context, table, schema, orderBy string) error {
	drop := fmt.Sprintf(`DROP TABLE IF EXISTS "%s"."%s"`, db.Name, table)
	if err := db.Exec(ctx, drop); err != nil {
		return errs.Connectivityf("drop %s: %v", table, err)
	}
	create := fmt.Sprintf(`
		CREATE TABLE "%s"."%s" (%s)
		ENGINE = MergeTree
		ORDER BY (%s)
	`, db.Name, table, schema, orderBy)
	if err := db.Exec(ctx, create); err != nil {
		return errs.Connectivityf("create %s: %v", table, err)
	}
	return nil
}

// ReplaceSegments rewrites customer_segments from scratch.
func (db *DB) ReplaceSegments(ctx context.Context, rows []models.CustomerSegmentRow) error {
	if err := db.recreate(ctx, SegmentsTable, segmentsSchema, "customer_unique_id"); err != nil {
		return err
	}

	batch, err := db.PrepareBatch(ctx, fmt.Sprintf(`INSERT INTO "%s"."%s"`, db.Name, SegmentsTable))
	if err != nil {
		return errs.Connectivityf("prepare %s insert: %v", SegmentsTable, err)
	}
	defer func() { _ = batch.Close() }()

	for _, r := range rows {
		if err := batch.AppendStruct(&r); err != nil {
			_ = batch.Abort()
			return errs.Connectivityf("append %s row: %v", SegmentsTable, err)
		}
	}
	if err := batch.Send(); err != nil {
		return errs.Connectivityf("write %s: %v", SegmentsTable, err)
	}
	return nil
}

// ReplaceProfiles rewrites segment_profile from scratch.
func (db *DB) ReplaceProfiles(ctx context.Context, rows []models.SegmentProfileRow) error {
	if err := db.recreate(ctx, ProfilesTable, profilesSchema, "segment"); err != nil {
		return err
	}

	batch, err := db.PrepareBatch(ctx, fmt.Sprintf(`INSERT INTO "%s"."%s"`, db.Name, ProfilesTable))
	if err != nil {
		return errs.Connectivityf("prepare %s insert: %v", ProfilesTable, err)
	}
	defer func() { _ = batch.Close() }()

	for _, r := range rows {
		if err := batch.AppendStruct(&r); err != nil {
			_ = batch.Abort()
			return errs.Connectivityf("append %s row: %v", ProfilesTable, err)
		}
	}
	if err := batch.Send(); err != nil {
		return errs.Connectivityf("write %s: %v", ProfilesTable, err)
	}
	return nil
}

// ReplaceChurnScores rewrites customer_churn_scores from scratch.
func (db *DB) ReplaceChurnScores(ctx context.Context, rows []models.ChurnScoreRow) error {
	if err := db.recreate(ctx, ChurnScoresTable, churnScoresSchema, "customer_unique_id"); err != nil {
		return err
	}

	batch, err := db.PrepareBatch(ctx, fmt.Sprintf(`INSERT INTO "%s"."%s"`, db.Name, ChurnScoresTable))
	if err != nil {
		return errs.Connectivityf("prepare %s insert: %v", ChurnScoresTable, err)
	}
	defer func() { _ = batch.Close() }()

	for _, r := range rows {
		if err := batch.AppendStruct(&r); err != nil {
			_ = batch.Abort()
			return errs.Connectivityf("append %s row: %v", ChurnScoresTable, err)
		}
	}
	if err := batch.Send(); err != nil {
		return errs.Connectivityf("write %s: %v", ChurnScoresTable, err)
	}
	return nil
}
