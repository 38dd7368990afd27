// Package db owns the database handle: opening it from config plus
// resolved credentials, pool sizing, and leasing connections to the
// service layer.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/cvyas/quotewall/internal/common"
	"github.com/cvyas/quotewall/internal/secrets"
	"github.com/cvyas/quotewall/internal/server/config"
)

// Manager hands out connections against the relational backend.
type Manager interface {
	// Acquire leases a connection, waiting at most the configured
	// acquire timeout. Callers must Close the connection on every exit
	// path to return it to the pool.
	Acquire(ctx context.Context) (*sql.Conn, error)

	// Conn exposes the shared handle for migrations and health pings.
	Conn() *sql.DB

	Ping(ctx context.Context) error
	Close() error
}

// SQLManager implements Manager over a database/sql handle. The
// driver's built-in pool replaces the original's hand-managed one:
// PoolMaxConns bounds open connections, PoolMinConns bounds the idle
// set, and PoolMaxConns = 0 selects direct-connect mode where no idle
// connection is retained and every operation dials fresh.
type SQLManager struct {
	db             *sql.DB
	acquireTimeout time.Duration
}

// NewPostgresManager opens the pgx handle for the managed relational
// backend. Credential host/port/dbname, when present in the secret
// payload, override the configured values.
func NewPostgresManager(cfg *config.Config, creds secrets.Credentials) (*SQLManager, error) {
	host := cfg.DBHost
	if creds.Host != "" {
		host = creds.Host
	}
	port := cfg.DBPort
	if creds.Port != "" {
		port = creds.Port
	}
	dbname := cfg.DBName
	if creds.DBName != "" {
		dbname = creds.DBName
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(creds.Username, creds.Password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + dbname,
		RawQuery: "sslmode=disable",
	}

	db, err := sql.Open("pgx", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConnection, err)
	}

	return newSQLManager(db, cfg), nil
}

// NewSQLiteManager opens the embedded engine. Credentials are not
// needed; the database is a local file.
func NewSQLiteManager(cfg *config.Config) (*SQLManager, error) {
	db, err := sql.Open("sqlite3", "file:"+cfg.SQLitePath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConnection, err)
	}

	return newSQLManager(db, cfg), nil
}

func newSQLManager(db *sql.DB, cfg *config.Config) *SQLManager {
	if cfg.PoolMaxConns > 0 {
		db.SetMaxOpenConns(cfg.PoolMaxConns)
		db.SetMaxIdleConns(cfg.PoolMinConns)
	} else {
		// Direct-connect mode: a fresh connection per operation.
		db.SetMaxIdleConns(0)
	}

	return &SQLManager{db: db, acquireTimeout: cfg.AcquireTimeout}
}

func (m *SQLManager) Acquire(ctx context.Context) (*sql.Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, m.acquireTimeout)
	defer cancel()

	conn, err := m.db.Conn(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: no connection available within %s", common.ErrPoolExhausted, m.acquireTimeout)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrConnection, err)
	}
	return conn, nil
}

func (m *SQLManager) Conn() *sql.DB {
	return m.db
}

func (m *SQLManager) Ping(ctx context.Context) error {
	if err := m.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrConnection, err)
	}
	return nil
}

func (m *SQLManager) Close() error {
	return m.db.Close()
}
