package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/retainlab/retainx/pkg/errs"
	"github.com/retainlab/retainx/pkg/retry"
	"github.com/retainlab/retainx/pkg/utils"
)

// Client wraps a ClickHouse connection for the analytics database that
// holds both the feature store views and the pipeline's result tables.
type Client struct {
	Logger *zap.Logger
	Db     driver.Conn
}

// New opens a connection with backoff. Connection failures surface as
// connectivity errors; a run never starts without a reachable store.
func New(ctx context.Context, logger *zap.Logger, database string) (Client, error) {
	connCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	dsn := utils.Env("CLICKHOUSE_ADDR", "clickhouse://localhost:9000?sslmode=disable")
	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return Client{}, errs.Connectivityf("invalid CLICKHOUSE_ADDR DSN: %v", err)
	}
	options.Auth.Database = database
	options.DialTimeout = 30 * time.Second
	options.MaxOpenConns = utils.EnvInt("CLICKHOUSE_MAX_OPEN_CONNS", 5)
	options.MaxIdleConns = utils.EnvInt("CLICKHOUSE_MAX_IDLE_CONNS", 2)
	if options.Compression == nil {
		options.Compression = &clickhouse.Compression{Method: clickhouse.CompressionLZ4}
	}

	client := Client{Logger: logger}
	err = retry.WithBackoff(connCtx, retry.DefaultConfig(), logger, "clickhouse_connection", func() error {
		conn, openErr := clickhouse.Open(options)
		if openErr != nil {
			return fmt.Errorf("open clickhouse connection: %w", openErr)
		}
		if pingErr := conn.Ping(connCtx); pingErr != nil {
			_ = conn.Close()
			return fmt.Errorf("ping clickhouse: %w", pingErr)
		}
		client.Db = conn
		return nil
	})
	if err != nil {
		return Client{}, errs.Connectivityf("analytics store unreachable: %v", err)
	}

	logger.Info("ClickHouse connection established",
		zap.String("database", database),
		zap.Int("max_open_conns", options.MaxOpenConns))

	return client, nil
}

// Exec runs a raw statement.
func (c *Client) Exec(ctx context.Context, query string, args ...interface{}) error {
	return c.Db.Exec(ctx, query, args...)
}

// Select reads rows into a slice of tagged structs.
func (c *Client) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return c.Db.Select(ctx, dest, query, args...)
}

// QueryRow reads a single row.
func (c *Client) QueryRow(ctx context.Context, query string, args ...interface{}) driver.Row {
	return c.Db.QueryRow(ctx, query, args...)
}

// PrepareBatch starts a batched insert.
func (c *Client) PrepareBatch(ctx context.Context, query string) (driver.Batch, error) {
	return c.Db.PrepareBatch(ctx, query)
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.Db.Close()
}
