package sql

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/kasuganosora/shardmeta/pkg/parser"
	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// testDialect treats TEXT as case-sensitive and everything else as not.
type testDialect struct{}

func (testDialect) DriverName() string { return "sqlite" }
func (testDialect) BuildDSN(dsCfg *domain.DataSourceConfig, _ *SQLConfig) (string, error) {
	return dsCfg.Database, nil
}
func (testDialect) QuoteIdentifier(name string) string { return `"` + name + `"` }
func (testDialect) Placeholder(int) string             { return "?" }
func (testDialect) MapColumnType(t string) string      { return strings.ToLower(t) }
func (testDialect) IsCaseSensitive(t string) bool      { return strings.EqualFold(t, "TEXT") }

type fakeColumnType struct{ name, dbType string }

func (c fakeColumnType) Name() string             { return c.name }
func (c fakeColumnType) DatabaseTypeName() string { return c.dbType }

func columnTypes(names ...string) []ColumnType {
	types := make([]ColumnType, len(names))
	for i, name := range names {
		types[i] = fakeColumnType{name: name, dbType: "TEXT"}
	}
	return types
}

func analyze(t *testing.T, query string) *parser.Projection {
	t.Helper()
	projection, err := parser.NewParser().AnalyzeProjection(query)
	require.NoError(t, err)
	return projection
}

func TestBuildColumns_ExplicitFields(t *testing.T) {
	columns := BuildColumns(
		columnTypes("order_id", "id_card", "total"),
		analyze(t, "SELECT o.order_id, o.id_card_cipher AS id_card, COUNT(*) AS total FROM t_order_0 o"),
		testDialect{},
	)

	assert.Equal(t, []domain.ColumnMeta{
		{Label: "order_id", Name: "order_id", Table: "t_order_0", Type: "text", CaseSensitive: true},
		{Label: "id_card", Name: "id_card_cipher", Table: "t_order_0", Type: "text", CaseSensitive: true},
		{Label: "total", Name: "total", Type: "text", CaseSensitive: true},
	}, columns)
}

func TestBuildColumns_Wildcard(t *testing.T) {
	columns := BuildColumns(
		columnTypes("label", "order_id", "status", "user_id"),
		analyze(t, "SELECT 'x' AS label, * FROM t_order_1"),
		testDialect{},
	)

	require.Len(t, columns, 4)
	assert.Empty(t, columns[0].Table)
	for _, column := range columns[1:] {
		assert.Equal(t, "t_order_1", column.Table)
		assert.Equal(t, column.Label, column.Name)
	}
}

func TestBuildColumns_QualifiedWildcardBeforeField(t *testing.T) {
	columns := BuildColumns(
		columnTypes("order_id", "status", "name"),
		analyze(t, "SELECT o.*, u.name FROM t_order_0 o JOIN t_user u ON o.user_id = u.user_id"),
		testDialect{},
	)

	assert.Equal(t, "t_order_0", columns[0].Table)
	assert.Equal(t, "t_order_0", columns[1].Table)
	assert.Equal(t, "t_user", columns[2].Table)
}

func TestBuildColumns_Unresolvable(t *testing.T) {
	// several wildcards
	columns := BuildColumns(
		columnTypes("a", "b"),
		analyze(t, "SELECT x.*, y.* FROM x, y"),
		testDialect{},
	)
	assert.Empty(t, columns[0].Table)
	assert.Empty(t, columns[1].Table)

	// more projection fields than result columns
	columns = BuildColumns(columnTypes("a"), analyze(t, "SELECT a, b FROM t"), testDialect{})
	assert.Equal(t, []domain.ColumnMeta{{Label: "a", Name: "a", Type: "text", CaseSensitive: true}}, columns)

	// no projection at all
	columns = BuildColumns(columnTypes("a"), nil, testDialect{})
	assert.Empty(t, columns[0].Table)
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE t_order_0 (order_id INTEGER PRIMARY KEY, id_card_cipher TEXT, status TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t_order_0 VALUES (1, 'c1', 'PAID'), (2, 'c2', 'NEW')`)
	require.NoError(t, err)
	return db
}

func TestNewResultSetMetaData(t *testing.T) {
	db := openTestDB(t)

	query := "SELECT order_id, id_card_cipher AS id_card, status FROM t_order_0 ORDER BY order_id"
	rows, err := db.QueryContext(context.Background(), query)
	require.NoError(t, err)
	defer rows.Close()

	md, err := NewResultSetMetaData(rows, query, testDialect{})
	require.NoError(t, err)

	count, err := md.ColumnCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	label, err := md.ColumnLabel(2)
	require.NoError(t, err)
	assert.Equal(t, "id_card", label)

	name, err := md.ColumnName(2)
	require.NoError(t, err)
	assert.Equal(t, "id_card_cipher", name)

	table, err := md.TableName(3)
	require.NoError(t, err)
	assert.Equal(t, "t_order_0", table)

	caseSensitive, err := md.IsCaseSensitive(1)
	require.NoError(t, err)
	assert.False(t, caseSensitive)
	caseSensitive, err = md.IsCaseSensitive(3)
	require.NoError(t, err)
	assert.True(t, caseSensitive)

	require.True(t, rows.Next())
	values, err := ScanRow(rows, count)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), "c1", "PAID"}, values)
}

func TestNewResultSetMetaData_UnparsableQuery(t *testing.T) {
	db := openTestDB(t)

	query := "PRAGMA table_info(t_order_0)"
	rows, err := db.Query(query)
	require.NoError(t, err)
	defer rows.Close()

	md, err := NewResultSetMetaData(rows, query, testDialect{})
	require.NoError(t, err)

	label, err := md.ColumnLabel(2)
	require.NoError(t, err)
	assert.Equal(t, "name", label)
	table, err := md.TableName(2)
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestNormalizeValue(t *testing.T) {
	assert.Nil(t, NormalizeValue(nil))
	assert.Equal(t, "abc", NormalizeValue([]byte("abc")))
	assert.Equal(t, int64(3), NormalizeValue(int64(3)))
	assert.Equal(t, int64(3), NormalizeValue(3))
	assert.Equal(t, float64(1.5), NormalizeValue(float32(1.5)))
	assert.Equal(t, true, NormalizeValue(true))
	assert.Equal(t, "[1 2]", NormalizeValue([]int{1, 2}))
}
