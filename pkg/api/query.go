package api

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kasuganosora/shardmeta/pkg/resultmeta"
	"github.com/kasuganosora/shardmeta/pkg/security"
	sqlcommon "github.com/kasuganosora/shardmeta/server/datasource/sql"
)

// ColumnDescription 结果列的物理与逻辑描述
type ColumnDescription struct {
	Index         int    `json:"index"`
	Label         string `json:"label"`
	Column        string `json:"column"`
	Table         string `json:"table,omitempty"`
	LogicTable    string `json:"logic_table,omitempty"`
	LogicColumn   string `json:"logic_column"`
	CaseSensitive bool   `json:"case_sensitive"`
	Encryptor     string `json:"encryptor,omitempty"`
}

// Query 查询结果对象
//
// Values of columns backed by an encryptor are decrypted while the row is
// read, so Value and Row always return plaintext.
type Query struct {
	id         uuid.UUID
	sql        string
	rows       *sql.Rows
	physical   resultmeta.ResultSetMetaData
	meta       *resultmeta.QueryResultMetaData
	encryptors []security.Encryptor // encryptors[i] 对应第 i+1 列，未加密列为 nil

	mu     sync.Mutex
	row    []interface{}
	closed bool
	err    error
}

func newQuery(rows *sql.Rows, query string, physical resultmeta.ResultSetMetaData, meta *resultmeta.QueryResultMetaData) (*Query, error) {
	count, err := meta.ColumnCount()
	if err != nil {
		return nil, WrapError(err, ErrCodeMetadata, "column count")
	}

	encryptors := make([]security.Encryptor, count)
	for i := range encryptors {
		encryptor, ok, err := meta.ShardingEncryptor(i + 1)
		if err != nil {
			return nil, WrapError(err, ErrCodeMetadata, fmt.Sprintf("resolve encryptor for column %d", i+1))
		}
		if ok {
			encryptors[i] = encryptor
		}
	}

	return &Query{
		id:         uuid.New(),
		sql:        query,
		rows:       rows,
		physical:   physical,
		meta:       meta,
		encryptors: encryptors,
	}, nil
}

// ID 返回查询标识
func (q *Query) ID() string {
	return q.id.String()
}

// SQL 返回原始语句
func (q *Query) SQL() string {
	return q.sql
}

// Metadata 返回逻辑结果集元数据
func (q *Query) Metadata() *resultmeta.QueryResultMetaData {
	return q.meta
}

// Describe 按列顺序描述每一列，Index 从 1 开始
func (q *Query) Describe() ([]ColumnDescription, error) {
	descriptions := make([]ColumnDescription, len(q.encryptors))
	for i := range descriptions {
		d, err := describeColumn(q.physical, q.meta, i+1, q.encryptors[i])
		if err != nil {
			return nil, err
		}
		descriptions[i] = d
	}
	return descriptions, nil
}

// describeColumn 描述第 index 列，encryptor 为 nil 表示未加密
func describeColumn(physical resultmeta.ResultSetMetaData, meta *resultmeta.QueryResultMetaData, index int, encryptor security.Encryptor) (ColumnDescription, error) {
	d := ColumnDescription{Index: index}
	var err error
	if d.Label, err = meta.ColumnLabel(index); err != nil {
		return d, WrapError(err, ErrCodeMetadata, "column label")
	}
	if d.Column, err = meta.ColumnName(index); err != nil {
		return d, WrapError(err, ErrCodeMetadata, "column name")
	}
	if d.Table, err = physical.TableName(index); err != nil {
		return d, WrapError(err, ErrCodeMetadata, "table name")
	}
	if d.LogicTable, err = meta.LogicTableName(index); err != nil {
		return d, WrapError(err, ErrCodeMetadata, "logic table name")
	}
	if d.LogicColumn, err = meta.LogicColumnName(index); err != nil {
		return d, WrapError(err, ErrCodeMetadata, "logic column name")
	}
	if d.CaseSensitive, err = meta.IsCaseSensitive(index); err != nil {
		return d, WrapError(err, ErrCodeMetadata, "case sensitivity")
	}
	if encryptor != nil {
		d.Encryptor = encryptor.Type()
	}
	return d, nil
}

// Next 移动到下一行
func (q *Query) Next() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.err != nil {
		return false
	}

	if !q.rows.Next() {
		q.err = q.rows.Err()
		q.row = nil
		q.closeLocked()
		return false
	}

	values, err := sqlcommon.ScanRow(q.rows, len(q.encryptors))
	if err != nil {
		q.err = WrapError(err, ErrCodeQuery, "scan row")
		q.row = nil
		q.closeLocked()
		return false
	}

	for i, encryptor := range q.encryptors {
		if encryptor == nil || values[i] == nil {
			continue
		}
		plain, err := encryptor.Decrypt(values[i])
		if err != nil {
			q.err = WrapError(err, ErrCodeDecrypt, fmt.Sprintf("decrypt column %d", i+1))
			q.row = nil
			q.closeLocked()
			return false
		}
		values[i] = plain
	}
	q.row = values
	return true
}

// Value 返回当前行第 index 列（从 1 开始）的值
func (q *Query) Value(index int) (interface{}, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.row == nil {
		return nil, NewError(ErrCodeInvalidParam, "no current row, call Next() first", nil)
	}
	if index < 1 || index > len(q.row) {
		return nil, NewError(ErrCodeColumnNotFound, fmt.Sprintf("column index %d out of range [1, %d]", index, len(q.row)), nil)
	}
	return q.row[index-1], nil
}

// ValueByLabel 按列标签（不区分大小写）返回当前行的值
func (q *Query) ValueByLabel(label string) (interface{}, error) {
	index, ok := q.meta.ColumnIndex(label)
	if !ok {
		return nil, NewError(ErrCodeColumnNotFound, fmt.Sprintf("column %q not found", label), nil)
	}
	return q.Value(index)
}

// Row 返回当前行的副本
func (q *Query) Row() []interface{} {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.row == nil {
		return nil
	}
	row := make([]interface{}, len(q.row))
	copy(row, q.row)
	return row
}

// Err 返回迭代过程中的错误
func (q *Query) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// Close 关闭结果集
func (q *Query) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closeLocked()
}

func (q *Query) closeLocked() error {
	if q.closed {
		return nil
	}
	q.closed = true
	return q.rows.Close()
}
