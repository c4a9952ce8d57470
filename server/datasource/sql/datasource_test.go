package sql

import (
	"context"
	"testing"

	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSQLConfig_Defaults(t *testing.T) {
	cfg, err := ParseSQLConfig(&domain.DataSourceConfig{})
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 300, cfg.ConnMaxLifetime)
	assert.Equal(t, 10, cfg.ConnectTimeout)
	assert.Equal(t, "utf8mb4", cfg.Charset)
	assert.Equal(t, "public", cfg.Schema)
	assert.Equal(t, "disable", cfg.SSLMode)
	require.NotNil(t, cfg.ParseTime)
	assert.True(t, *cfg.ParseTime)
}

func TestParseSQLConfig_Options(t *testing.T) {
	cfg, err := ParseSQLConfig(&domain.DataSourceConfig{Options: map[string]interface{}{
		"max_open_conns": "8",
		"parse_time":     false,
		"schema":         "sharding",
		"ssl_mode":       "require",
	}})
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.MaxOpenConns)
	assert.False(t, *cfg.ParseTime)
	assert.Equal(t, "sharding", cfg.Schema)
	assert.Equal(t, "require", cfg.SSLMode)
}

func TestParseSQLConfig_InvalidOption(t *testing.T) {
	_, err := ParseSQLConfig(&domain.DataSourceConfig{Options: map[string]interface{}{
		"max_open_conns": "many",
	}})
	var cfgErr *domain.ErrInvalidConfig
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "datasource.options", cfgErr.ConfigKey)
}

func TestDataSource_Lifecycle(t *testing.T) {
	dsCfg := &domain.DataSourceConfig{Type: domain.DataSourceTypeSQLite, Database: ":memory:"}
	sqlCfg, err := ParseSQLConfig(dsCfg)
	require.NoError(t, err)

	ds := NewDataSource(dsCfg, sqlCfg, testDialect{})
	assert.False(t, ds.IsConnected())
	_, err = ds.DB()
	var notConnected *domain.ErrNotConnected
	require.ErrorAs(t, err, &notConnected)

	require.NoError(t, ds.Connect(context.Background()))
	require.NoError(t, ds.Connect(context.Background()))
	assert.True(t, ds.IsConnected())
	assert.Same(t, dsCfg, ds.GetConfig())

	db, err := ds.DB()
	require.NoError(t, err)
	var one int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)

	require.NoError(t, ds.Close())
	require.NoError(t, ds.Close())
	assert.False(t, ds.IsConnected())
}

func TestDataSource_ConnectFailure(t *testing.T) {
	dsCfg := &domain.DataSourceConfig{Database: "/nonexistent/dir/shardmeta.db"}
	sqlCfg, err := ParseSQLConfig(dsCfg)
	require.NoError(t, err)

	ds := NewDataSource(dsCfg, sqlCfg, testDialect{})
	err = ds.Connect(context.Background())
	var connErr *domain.ErrConnectionFailed
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "sqlite", connErr.DataSourceType)
	assert.False(t, ds.IsConnected())
}
