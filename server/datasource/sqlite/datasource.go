package sqlite

import (
	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/shardmeta/server/datasource/sql"
	_ "modernc.org/sqlite" // SQLite driver
)

// NewDataSource creates a SQLite datasource from config.
//
// Every connection to ":memory:" opens a separate database, so an in-memory
// datasource keeps exactly one connection open for its whole lifetime.
func NewDataSource(dsCfg *domain.DataSourceConfig) (*sqlcommon.DataSource, error) {
	sqlCfg, err := sqlcommon.ParseSQLConfig(dsCfg)
	if err != nil {
		return nil, err
	}
	if dsCfg.Database == "" || dsCfg.Database == MemoryDatabase {
		sqlCfg.MaxOpenConns = 1
		sqlCfg.MaxIdleConns = 1
		sqlCfg.ConnMaxLifetime = 0
		sqlCfg.ConnMaxIdleTime = 0
	}
	return sqlcommon.NewDataSource(dsCfg, sqlCfg, &SQLiteDialect{}), nil
}
