package sql

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
)

// DataSource owns a database/sql pool for one configured data source.
// MySQL, PostgreSQL and SQLite only differ in their Dialect.
type DataSource struct {
	mu        sync.RWMutex
	config    *domain.DataSourceConfig
	sqlCfg    *SQLConfig
	dialect   Dialect
	db        *sql.DB
	connected bool
}

// NewDataSource creates a new SQL datasource. Call Connect before use.
func NewDataSource(dsCfg *domain.DataSourceConfig, sqlCfg *SQLConfig, dialect Dialect) *DataSource {
	return &DataSource{
		config:  dsCfg,
		sqlCfg:  sqlCfg,
		dialect: dialect,
	}
}

// Connect opens the database connection and configures the pool.
func (ds *DataSource) Connect(ctx context.Context) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.connected {
		return nil
	}

	dsn, err := ds.dialect.BuildDSN(ds.config, ds.sqlCfg)
	if err != nil {
		return domain.NewErrConnectionFailed(ds.dialect.DriverName(), fmt.Sprintf("build DSN: %v", err))
	}

	db, err := sql.Open(ds.dialect.DriverName(), dsn)
	if err != nil {
		return domain.NewErrConnectionFailed(ds.dialect.DriverName(), err.Error())
	}

	// Configure pool
	db.SetMaxOpenConns(ds.sqlCfg.MaxOpenConns)
	db.SetMaxIdleConns(ds.sqlCfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(ds.sqlCfg.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(ds.sqlCfg.ConnMaxIdleTime) * time.Second)

	// Verify connectivity
	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(ds.sqlCfg.ConnectTimeout)*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return domain.NewErrConnectionFailed(ds.dialect.DriverName(), err.Error())
	}

	ds.db = db
	ds.connected = true
	return nil
}

// Close closes the database connection.
func (ds *DataSource) Close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if !ds.connected {
		return nil
	}
	ds.connected = false
	return ds.db.Close()
}

// IsConnected reports whether Connect succeeded and Close was not called.
func (ds *DataSource) IsConnected() bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.connected
}

// DB returns the underlying pool.
func (ds *DataSource) DB() (*sql.DB, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if !ds.connected {
		return nil, domain.NewErrNotConnected(ds.dialect.DriverName())
	}
	return ds.db, nil
}

// Dialect returns the dialect of the datasource.
func (ds *DataSource) Dialect() Dialect {
	return ds.dialect
}

// GetConfig returns the datasource configuration.
func (ds *DataSource) GetConfig() *domain.DataSourceConfig {
	return ds.config
}
