package mysql

import (
	"fmt"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/shardmeta/server/datasource/sql"
)

// MySQLDialect implements sql.Dialect for MySQL.
type MySQLDialect struct{}

func (d *MySQLDialect) DriverName() string { return "mysql" }

func (d *MySQLDialect) BuildDSN(dsCfg *domain.DataSourceConfig, sqlCfg *sqlcommon.SQLConfig) (string, error) {
	port := dsCfg.Port
	if port <= 0 {
		port = 3306
	}

	cfg := mysqldriver.NewConfig()
	cfg.User = dsCfg.Username
	cfg.Passwd = dsCfg.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", dsCfg.Host, port)
	cfg.DBName = dsCfg.Database
	cfg.AllowNativePasswords = true
	cfg.Collation = sqlCfg.Collation
	cfg.Params = map[string]string{
		"charset": sqlCfg.Charset,
	}

	if sqlCfg.ParseTime != nil && *sqlCfg.ParseTime {
		cfg.ParseTime = true
	}

	if sqlCfg.ConnectTimeout > 0 {
		cfg.Timeout = time.Duration(sqlCfg.ConnectTimeout) * time.Second
	}

	// TLS
	switch strings.ToLower(sqlCfg.SSLMode) {
	case "true", "required", "require":
		cfg.TLSConfig = "true"
	case "skip-verify", "preferred":
		cfg.TLSConfig = "skip-verify"
	case "false", "disable", "":
		cfg.TLSConfig = "false"
	default:
		cfg.TLSConfig = sqlCfg.SSLMode
	}

	return cfg.FormatDSN(), nil
}

func (d *MySQLDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *MySQLDialect) Placeholder(n int) string {
	return "?"
}

func (d *MySQLDialect) MapColumnType(dbTypeName string) string {
	t := strings.ToLower(dbTypeName)

	// Handle tinyint(1) as bool
	if t == "tinyint(1)" {
		return "bool"
	}

	// Strip parenthesized parameters: varchar(255) -> varchar
	if idx := strings.Index(t, "("); idx >= 0 {
		t = t[:idx]
	}
	t = strings.TrimSpace(t)

	// The driver reports "UNSIGNED INT"; information_schema reports "int unsigned"
	t = strings.TrimSuffix(t, " unsigned")
	t = strings.TrimPrefix(t, "unsigned ")

	switch t {
	case "tinyint", "smallint", "mediumint", "int", "integer", "bigint", "year":
		return "int"
	case "float", "double", "decimal", "numeric", "real":
		return "float64"
	case "varchar", "char", "text", "tinytext", "mediumtext", "longtext", "enum", "set", "json":
		return "string"
	case "blob", "tinyblob", "mediumblob", "longblob", "binary", "varbinary":
		return "string"
	case "date":
		return "date"
	case "time":
		return "time"
	case "datetime", "timestamp":
		return "datetime"
	case "bit", "bool", "boolean":
		return "bool"
	default:
		return "string"
	}
}

// IsCaseSensitive reports true for binary string types only; text types use
// the connection's case-insensitive default collation.
func (d *MySQLDialect) IsCaseSensitive(dbTypeName string) bool {
	t := strings.ToLower(strings.TrimSpace(dbTypeName))
	if idx := strings.Index(t, "("); idx >= 0 {
		t = t[:idx]
	}
	switch t {
	case "binary", "varbinary", "blob", "tinyblob", "mediumblob", "longblob":
		return true
	default:
		return false
	}
}
