package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported driver names
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

var (
	sharedDB *sqlx.DB
	initOnce sync.Once
	mu       sync.RWMutex
)

// dbEnabled tracks whether the shared database was initialized
var dbEnabled bool

// Open connects to a database and configures its pool.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	conn, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// One writer at a time; also keeps :memory: databases on a single connection
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(25)
		conn.SetConnMaxLifetime(5 * time.Minute)
		conn.SetConnMaxIdleTime(1 * time.Minute)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}
	return conn, nil
}

// InitDatabase initializes the shared database connection.
func InitDatabase(ctx context.Context, driver, dsn string) error {
	var initErr error
	initOnce.Do(func() {
		conn, err := Open(ctx, driver, dsn)
		if err != nil {
			initErr = err
			return
		}
		mu.Lock()
		sharedDB = conn
		dbEnabled = true
		mu.Unlock()
	})
	return initErr
}

// DatabaseEnabled returns whether the shared database is available
func DatabaseEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return dbEnabled
}

// GetDatabase returns the shared database instance
func GetDatabase() *sqlx.DB {
	mu.RLock()
	defer mu.RUnlock()
	return sharedDB
}

// CloseDatabase closes the shared database connection
func CloseDatabase() error {
	mu.Lock()
	defer mu.Unlock()
	if sharedDB != nil {
		return sharedDB.Close()
	}
	return nil
}
