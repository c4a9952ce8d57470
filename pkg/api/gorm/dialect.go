package gorm

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"

	sqlcommon "github.com/kasuganosora/shardmeta/server/datasource/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/callbacks"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/migrator"
	"gorm.io/gorm/schema"
)

var numericPlaceholder = regexp.MustCompile(`\$(\d+)`)

// Dialector 将已打开的 *sql.DB 和数据源方言包装为 GORM 驱动
type Dialector struct {
	Conn    *sql.DB
	Dialect sqlcommon.Dialect
}

// Open 创建 GORM 驱动，连接池由调用方持有
func Open(conn *sql.DB, dialect sqlcommon.Dialect) gorm.Dialector {
	return &Dialector{Conn: conn, Dialect: dialect}
}

// Name 返回数据库方言名称
func (d *Dialector) Name() string {
	return d.Dialect.DriverName()
}

// Initialize 注册默认回调并挂接连接池
func (d *Dialector) Initialize(db *gorm.DB) error {
	callbacks.RegisterDefaultCallbacks(db, &callbacks.Config{})
	db.ConnPool = d.Conn
	return nil
}

// Migrator 返回 GORM 通用迁移器
func (d *Dialector) Migrator(db *gorm.DB) gorm.Migrator {
	return migrator.Migrator{Config: migrator.Config{
		DB:        db,
		Dialector: d,
	}}
}

// DataTypeOf 确定架构字段的数据类型
func (d *Dialector) DataTypeOf(field *schema.Field) string {
	switch field.DataType {
	case schema.Bool:
		return "BOOLEAN"
	case schema.Int, schema.Uint:
		switch {
		case field.Size <= 16:
			return "SMALLINT"
		case field.Size <= 32:
			return "INT"
		default:
			return "BIGINT"
		}
	case schema.Float:
		return "DOUBLE PRECISION"
	case schema.String:
		if field.Size > 0 {
			return "VARCHAR(" + strconv.Itoa(field.Size) + ")"
		}
		return "TEXT"
	case schema.Time:
		return "TIMESTAMP"
	case schema.Bytes:
		if d.Dialect.DriverName() == "postgres" {
			return "BYTEA"
		}
		return "BLOB"
	default:
		return string(field.DataType)
	}
}

// DefaultValueOf 提供架构字段的默认值
func (d *Dialector) DefaultValueOf(field *schema.Field) clause.Expression {
	return clause.Expr{SQL: "DEFAULT"}
}

// BindVarTo 写入第 len(stmt.Vars) 个参数的占位符
func (d *Dialector) BindVarTo(writer clause.Writer, stmt *gorm.Statement, v interface{}) {
	writer.WriteString(d.Dialect.Placeholder(len(stmt.Vars)))
}

// QuoteTo 按方言引用标识符，"schema.table" 逐段引用
func (d *Dialector) QuoteTo(writer clause.Writer, str string) {
	for i, part := range strings.Split(str, ".") {
		if i > 0 {
			writer.WriteByte('.')
		}
		writer.WriteString(d.Dialect.QuoteIdentifier(part))
	}
}

// Explain 格式化带有变量的 SQL 语句
func (d *Dialector) Explain(sql string, vars ...interface{}) string {
	if d.Dialect.DriverName() == "postgres" {
		return logger.ExplainSQL(sql, numericPlaceholder, `'`, vars...)
	}
	return logger.ExplainSQL(sql, nil, `'`, vars...)
}
