package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/shardmeta/server/datasource/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDialect_BuildDSN(t *testing.T) {
	d := &SQLiteDialect{}

	dsn, err := d.BuildDSN(&domain.DataSourceConfig{}, &sqlcommon.SQLConfig{ConnectTimeout: 5})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dsn, ":memory:?"))
	assert.Contains(t, dsn, "busy_timeout%285000%29")

	dsn, err = d.BuildDSN(&domain.DataSourceConfig{Database: "/tmp/ds_0.db"}, &sqlcommon.SQLConfig{})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ds_0.db?_pragma=foreign_keys%281%29", dsn)
}

func TestSQLiteDialect_Types(t *testing.T) {
	d := &SQLiteDialect{}

	tests := []struct {
		dbType        string
		mapped        string
		caseSensitive bool
	}{
		{"INTEGER", "int", false},
		{"BIGINT", "int", false},
		{"VARCHAR(32)", "string", true},
		{"TEXT", "string", true},
		{"BLOB", "string", true},
		{"REAL", "float64", false},
		{"DECIMAL(10,2)", "float64", false},
		{"BOOLEAN", "bool", false},
		{"DATETIME", "datetime", false},
		{"", "string", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.mapped, d.MapColumnType(tt.dbType), tt.dbType)
		assert.Equal(t, tt.caseSensitive, d.IsCaseSensitive(tt.dbType), tt.dbType)
	}

	assert.Equal(t, `"t_order"`, d.QuoteIdentifier("t_order"))
	assert.Equal(t, "?", d.Placeholder(3))
}

func TestNewDataSource_Memory(t *testing.T) {
	ds, err := NewDataSource(&domain.DataSourceConfig{Type: domain.DataSourceTypeSQLite, Database: MemoryDatabase})
	require.NoError(t, err)
	require.NoError(t, ds.Connect(context.Background()))
	defer ds.Close()

	db, err := ds.DB()
	require.NoError(t, err)

	// the table must survive across statements on the single pooled connection
	_, err = db.Exec(`CREATE TABLE t_order_0 (order_id INTEGER, id_card_cipher VARCHAR(64))`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t_order_0 VALUES (1, 'cipher')`)
	require.NoError(t, err)

	query := "SELECT o.order_id, o.id_card_cipher AS id_card FROM t_order_0 o"
	rows, err := db.Query(query)
	require.NoError(t, err)
	defer rows.Close()

	md, err := sqlcommon.NewResultSetMetaData(rows, query, ds.Dialect())
	require.NoError(t, err)

	assert.Equal(t, []domain.ColumnMeta{
		{Label: "order_id", Name: "order_id", Table: "t_order_0", Type: "int"},
		{Label: "id_card", Name: "id_card_cipher", Table: "t_order_0", Type: "string", CaseSensitive: true},
	}, md.Columns())
}
