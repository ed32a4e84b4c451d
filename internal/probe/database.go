package probe

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"probectl/internal/config"
	"probectl/internal/logging"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

// Database probes direct SQL connectivity to the backend's MySQL-compatible server
type Database struct {
	dsn     string
	timeout time.Duration
	log     zerolog.Logger
}

// NewDatabase creates a Database prober from the backend configuration
func NewDatabase(cfg *config.Config, logger zerolog.Logger) *Database {
	return &Database{
		dsn:     cfg.Backend.DatabaseDSN,
		timeout: cfg.ProbeTimeout,
		log:     logger,
	}
}

// open builds a connection pool for one probe. Caller must close it.
func (d *Database) open() (*sql.DB, *mysql.Config, error) {
	if d.dsn == "" {
		return nil, nil, fmt.Errorf("%s is not configured", config.EnvDatabaseDSN)
	}
	dsn, err := mysql.ParseDSN(d.dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid database dsn: %w", err)
	}
	if d.timeout > 0 {
		dsn.Timeout = d.timeout
		dsn.ReadTimeout = d.timeout
		dsn.WriteTimeout = d.timeout
	}
	connector, err := mysql.NewConnector(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("create connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	return db, dsn, nil
}

func (d *Database) withDB(ctx context.Context, fn func(ctx context.Context, db *sql.DB) (map[string]any, error)) (any, error) {
	db, dsn, err := d.open()
	if err != nil {
		return nil, err
	}
	defer logging.DeferClose(d.log, db, "close database")

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", dsn.Addr, err)
	}
	payload, err := fn(ctx, db)
	if err != nil {
		return nil, err
	}
	payload["addr"] = dsn.Addr
	payload["latency_ms"] = time.Since(start).Milliseconds()
	return payload, nil
}

// BasicQuery runs SELECT 1
func (d *Database) BasicQuery(ctx context.Context) (any, error) {
	return d.withDB(ctx, func(ctx context.Context, db *sql.DB) (map[string]any, error) {
		var one int
		if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
			return nil, fmt.Errorf("select 1: %w", err)
		}
		if one != 1 {
			return nil, fmt.Errorf("select 1 returned %d", one)
		}
		return map[string]any{"result": one}, nil
	})
}

// ServerVersion reads the server version string
func (d *Database) ServerVersion(ctx context.Context) (any, error) {
	return d.withDB(ctx, func(ctx context.Context, db *sql.DB) (map[string]any, error) {
		var version string
		if err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
			return nil, fmt.Errorf("read server version: %w", err)
		}
		return map[string]any{"version": version}, nil
	})
}

// Transaction begins a transaction, queries inside it and rolls it back
func (d *Database) Transaction(ctx context.Context) (any, error) {
	return d.withDB(ctx, func(ctx context.Context, db *sql.DB) (map[string]any, error) {
		tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
		if err != nil {
			return nil, fmt.Errorf("begin transaction: %w", err)
		}
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("query in transaction: %w", err)
		}
		if err := tx.Rollback(); err != nil {
			return nil, fmt.Errorf("rollback: %w", err)
		}
		return map[string]any{"rolled_back": true}, nil
	})
}
