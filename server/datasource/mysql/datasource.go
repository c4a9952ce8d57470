package mysql

import (
	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/shardmeta/server/datasource/sql"
)

// NewDataSource creates a MySQL datasource from config.
func NewDataSource(dsCfg *domain.DataSourceConfig) (*sqlcommon.DataSource, error) {
	sqlCfg, err := sqlcommon.ParseSQLConfig(dsCfg)
	if err != nil {
		return nil, err
	}
	return sqlcommon.NewDataSource(dsCfg, sqlCfg, &MySQLDialect{}), nil
}
