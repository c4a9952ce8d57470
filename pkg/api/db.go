package api

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/kasuganosora/shardmeta/pkg/config"
	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	"github.com/kasuganosora/shardmeta/pkg/resultmeta"
	"github.com/kasuganosora/shardmeta/pkg/rule"
	"github.com/kasuganosora/shardmeta/server/datasource/mysql"
	"github.com/kasuganosora/shardmeta/server/datasource/postgresql"
	sqlcommon "github.com/kasuganosora/shardmeta/server/datasource/sql"
	"github.com/kasuganosora/shardmeta/server/datasource/sqlite"

	"gorm.io/gorm"
)

// Options DB 选项
type Options struct {
	// Rules 分片与加密规则，nil 表示不做任何映射
	Rules  *rule.Rules
	Logger Logger
}

// DB 在 database/sql 连接池之上执行查询并构建逻辑结果集元数据
type DB struct {
	mu      sync.RWMutex
	conn    *sql.DB
	dialect sqlcommon.Dialect
	rules   *rule.Rules
	logger  Logger
	ds      *sqlcommon.DataSource // Open 创建的数据源，调用方传入的连接池为 nil
	closed  bool
}

// NewDataSource 根据数据源类型创建 SQL 数据源
func NewDataSource(dsCfg *domain.DataSourceConfig) (*sqlcommon.DataSource, error) {
	switch dsCfg.Type {
	case domain.DataSourceTypeMySQL:
		return mysql.NewDataSource(dsCfg)
	case domain.DataSourceTypePostgreSQL:
		return postgresql.NewDataSource(dsCfg)
	case domain.DataSourceTypeSQLite:
		return sqlite.NewDataSource(dsCfg)
	default:
		return nil, NewError(ErrCodeUnsupportedDS, fmt.Sprintf("unsupported datasource type %q", dsCfg.Type), nil)
	}
}

// Open 按配置连接数据源并构建规则
func Open(ctx context.Context, cfg *config.Config, logger Logger) (*DB, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = NewDefaultLogger(ParseLogLevel(cfg.Log.Level))
	}

	rules, err := rule.Build(&cfg.Rules)
	if err != nil {
		return nil, WrapError(err, ErrCodeInvalidRule, "build rules")
	}

	ds, err := NewDataSource(&cfg.DataSource)
	if err != nil {
		if IsErrorCode(err, ErrCodeUnsupportedDS) {
			return nil, err
		}
		return nil, WrapError(err, ErrCodeInvalidParam, "datasource config")
	}
	if err := ds.Connect(ctx); err != nil {
		return nil, WrapError(err, ErrCodeNotConnected, "connect datasource")
	}
	conn, err := ds.DB()
	if err != nil {
		ds.Close()
		return nil, WrapError(err, ErrCodeNotConnected, "connect datasource")
	}

	logger.Info("connected to %s datasource %q", cfg.DataSource.Type, cfg.DataSource.Name)
	if rules.Sharding != nil {
		logger.Debug("sharding rule covers logic tables %v", rules.Sharding.LogicTableNames())
	}
	if !rules.Encrypt.IsEmpty() {
		logger.Debug("encrypt rule covers logic tables %v", rules.Encrypt.EncryptTableNames())
	}

	db := newDB(conn, ds.Dialect(), &Options{Rules: rules, Logger: logger})
	db.ds = ds
	return db, nil
}

// NewDB 包装调用方持有的连接池，Close 不会关闭 conn
func NewDB(conn *sql.DB, dialect sqlcommon.Dialect, opts *Options) (*DB, error) {
	if conn == nil {
		return nil, NewError(ErrCodeInvalidParam, "connection cannot be nil", nil)
	}
	if dialect == nil {
		return nil, NewError(ErrCodeInvalidParam, "dialect cannot be nil", nil)
	}
	return newDB(conn, dialect, opts), nil
}

// FromGorm 复用 GORM 的连接池
func FromGorm(gdb *gorm.DB, dialect sqlcommon.Dialect, opts *Options) (*DB, error) {
	if gdb == nil {
		return nil, NewError(ErrCodeInvalidParam, "gorm DB cannot be nil", nil)
	}
	conn, err := gdb.DB()
	if err != nil {
		return nil, WrapError(err, ErrCodeInvalidParam, "gorm connection pool")
	}
	return NewDB(conn, dialect, opts)
}

func newDB(conn *sql.DB, dialect sqlcommon.Dialect, opts *Options) *DB {
	db := &DB{conn: conn, dialect: dialect}
	if opts != nil {
		db.rules = opts.Rules
		db.logger = opts.Logger
	}
	if db.rules == nil {
		db.rules = &rule.Rules{Encrypt: rule.EmptyEncryptRule()}
	}
	if db.logger == nil {
		db.logger = NewNoOpLogger()
	}
	return db
}

// Query 执行查询并返回带逻辑元数据的结果
func (db *DB) Query(ctx context.Context, query string, args ...interface{}) (*Query, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return nil, NewError(ErrCodeClosed, "DB is closed", nil)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		db.logger.Warn("query failed: %v", err)
		return nil, WrapError(domain.NewErrQueryFailed(query, err), ErrCodeQuery, "query failed")
	}

	physical, err := sqlcommon.NewResultSetMetaData(rows, query, db.dialect)
	if err != nil {
		rows.Close()
		return nil, WrapError(err, ErrCodeMetadata, "read column metadata")
	}

	shardingRule, encryptRule := db.rules.MetaDataRules()
	meta, err := resultmeta.New(physical, shardingRule, encryptRule)
	if err != nil {
		rows.Close()
		return nil, WrapError(err, ErrCodeMetadata, "build result metadata")
	}

	q, err := newQuery(rows, query, physical, meta)
	if err != nil {
		rows.Close()
		return nil, err
	}
	db.logger.Debug("query %s opened with %d columns", q.ID(), len(q.encryptors))
	return q, nil
}

// Exec 执行不返回结果集的语句
func (db *DB) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return nil, NewError(ErrCodeClosed, "DB is closed", nil)
	}
	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, WrapError(err, ErrCodeQuery, "exec failed")
	}
	return result, nil
}

// Rules 返回生效的规则
func (db *DB) Rules() *rule.Rules {
	return db.rules
}

// Dialect 返回数据源方言
func (db *DB) Dialect() sqlcommon.Dialect {
	return db.dialect
}

// Logger 返回日志
func (db *DB) Logger() Logger {
	return db.logger
}

// Close 关闭 DB。仅关闭由 Open 创建的数据源
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil
	}
	db.closed = true
	if db.ds != nil {
		return db.ds.Close()
	}
	return nil
}
