package sql

import (
	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
)

// Dialect encapsulates database-engine-specific behavior.
type Dialect interface {
	// DriverName returns the database/sql driver name ("mysql", "postgres" or "sqlite")
	DriverName() string

	// BuildDSN constructs the driver-specific connection string
	BuildDSN(dsCfg *domain.DataSourceConfig, sqlCfg *SQLConfig) (string, error)

	// QuoteIdentifier wraps a table/column name in dialect-specific quoting
	QuoteIdentifier(name string) string

	// Placeholder returns the parameter placeholder for the n-th parameter (1-based)
	Placeholder(n int) string

	// MapColumnType converts a database column type to a domain type string
	MapColumnType(dbTypeName string) string

	// IsCaseSensitive reports whether values of dbTypeName compare case
	// sensitively under the engine's default collation
	IsCaseSensitive(dbTypeName string) bool
}
