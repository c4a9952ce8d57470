package sqlite

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/shardmeta/server/datasource/sql"
)

// MemoryDatabase is the database name of a private in-memory database.
const MemoryDatabase = ":memory:"

// SQLiteDialect implements sql.Dialect for SQLite.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string { return "sqlite" }

func (d *SQLiteDialect) BuildDSN(dsCfg *domain.DataSourceConfig, sqlCfg *sqlcommon.SQLConfig) (string, error) {
	database := dsCfg.Database
	if database == "" {
		database = MemoryDatabase
	}

	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	if sqlCfg.ConnectTimeout > 0 {
		params.Add("_pragma", "busy_timeout("+strconv.Itoa(sqlCfg.ConnectTimeout*1000)+")")
	}
	return database + "?" + params.Encode(), nil
}

func (d *SQLiteDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d *SQLiteDialect) Placeholder(n int) string {
	return "?"
}

// MapColumnType follows SQLite's type affinity rules on the declared type.
func (d *SQLiteDialect) MapColumnType(dbTypeName string) string {
	t := strings.ToUpper(strings.TrimSpace(dbTypeName))
	switch {
	case t == "":
		return "string"
	case t == "BOOLEAN" || t == "BOOL":
		return "bool"
	case t == "DATE":
		return "date"
	case t == "DATETIME" || t == "TIMESTAMP":
		return "datetime"
	case strings.Contains(t, "INT"):
		return "int"
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return "string"
	case strings.Contains(t, "BLOB"):
		return "string"
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"),
		strings.Contains(t, "NUMERIC"), strings.Contains(t, "DECIMAL"):
		return "float64"
	default:
		return "string"
	}
}

// IsCaseSensitive reports true for text and blob affinity, which compare
// with the BINARY collation unless a column declares otherwise.
func (d *SQLiteDialect) IsCaseSensitive(dbTypeName string) bool {
	t := strings.ToUpper(strings.TrimSpace(dbTypeName))
	return strings.Contains(t, "CHAR") || strings.Contains(t, "CLOB") ||
		strings.Contains(t, "TEXT") || strings.Contains(t, "BLOB")
}
