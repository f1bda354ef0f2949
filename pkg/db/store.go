package db

import (
	"context"

	"go.uber.org/zap"

	"github.com/retainlab/retainx/pkg/db/clickhouse"
	"github.com/retainlab/retainx/pkg/db/models"
)

// Store is what the pipeline needs from the analytics database: two
// read-only feature views and three full-replacement result tables.
type Store interface {
	CustomerFeatures(ctx context.Context) ([]models.CustomerFeatureRow, error)
	TimeFeatures(ctx context.Context) ([]models.TimeFeatureRow, error)
	SegmentNames(ctx context.Context) ([]models.SegmentNameRow, error)
	ReplaceSegments(ctx context.Context, rows []models.CustomerSegmentRow) error
	ReplaceProfiles(ctx context.Context, rows []models.SegmentProfileRow) error
	ReplaceChurnScores(ctx context.Context, rows []models.ChurnScoreRow) error
	Close() error
}

// DB implements Store over ClickHouse.
type DB struct {
	clickhouse.Client
	Name string
}

// New connects to the analytics database.
func New(ctx context.Context, logger *zap.Logger, database string) (*DB, error) {
	client, err := clickhouse.New(ctx, logger.With(zap.String("db", database)), database)
	if err != nil {
		return nil, err
	}
	return &DB{Client: client, Name: database}, nil
}
