package postgresql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/shardmeta/server/datasource/sql"
	"github.com/lib/pq"
)

// PostgreSQLDialect implements sql.Dialect for PostgreSQL.
type PostgreSQLDialect struct{}

func (d *PostgreSQLDialect) DriverName() string { return "postgres" }

func (d *PostgreSQLDialect) BuildDSN(dsCfg *domain.DataSourceConfig, sqlCfg *sqlcommon.SQLConfig) (string, error) {
	port := dsCfg.Port
	if port <= 0 {
		port = 5432
	}

	parts := []string{
		"host=" + dsnValue(dsCfg.Host),
		fmt.Sprintf("port=%d", port),
		"user=" + dsnValue(dsCfg.Username),
		"password=" + dsnValue(dsCfg.Password),
		"dbname=" + dsnValue(dsCfg.Database),
		"sslmode=" + dsnValue(sqlCfg.SSLMode),
	}

	if sqlCfg.Schema != "" {
		parts = append(parts, "search_path="+dsnValue(sqlCfg.Schema))
	}
	if sqlCfg.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", sqlCfg.ConnectTimeout))
	}
	if sqlCfg.SSLCert != "" {
		parts = append(parts, "sslcert="+dsnValue(sqlCfg.SSLCert))
	}
	if sqlCfg.SSLKey != "" {
		parts = append(parts, "sslkey="+dsnValue(sqlCfg.SSLKey))
	}
	if sqlCfg.SSLRootCert != "" {
		parts = append(parts, "sslrootcert="+dsnValue(sqlCfg.SSLRootCert))
	}

	return strings.Join(parts, " "), nil
}

// dsnValue quotes a keyword/value connection string value when needed.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func (d *PostgreSQLDialect) QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

func (d *PostgreSQLDialect) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (d *PostgreSQLDialect) MapColumnType(dbTypeName string) string {
	t := strings.ToLower(strings.TrimSpace(dbTypeName))

	// lib/pq reports arrays as "_INT4"; information_schema uses "integer[]"
	t = strings.TrimSuffix(strings.TrimPrefix(t, "_"), "[]")

	switch t {
	case "smallint", "integer", "bigint", "serial", "bigserial", "smallserial", "int2", "int4", "int8":
		return "int"
	case "real", "float4", "double precision", "float8", "numeric", "decimal", "money":
		return "float64"
	case "boolean", "bool":
		return "bool"
	case "date":
		return "date"
	case "time", "time without time zone", "time with time zone", "timetz":
		return "time"
	case "timestamp", "timestamp without time zone", "timestamp with time zone", "timestamptz":
		return "datetime"
	default:
		// character types, bytea, json, uuid, network and user-defined types
		return "string"
	}
}

// IsCaseSensitive reports true for character and binary types except citext.
func (d *PostgreSQLDialect) IsCaseSensitive(dbTypeName string) bool {
	t := strings.ToLower(strings.TrimSpace(dbTypeName))
	switch t {
	case "varchar", "character varying", "bpchar", "char", "character", "text", "name",
		"bytea", "json", "jsonb", "xml", "uuid":
		return true
	default:
		return false
	}
}
