package memory

import "github.com/kasuganosora/shardmeta/pkg/resource/domain"

// ResultSetMetaData 内存结果集元数据
//
// It serves column metadata from a slice and never changes after creation,
// so it may be read from several goroutines at once.
type ResultSetMetaData struct {
	columns []domain.ColumnMeta
}

// NewResultSetMetaData 创建内存结果集元数据
func NewResultSetMetaData(columns ...domain.ColumnMeta) *ResultSetMetaData {
	cols := make([]domain.ColumnMeta, len(columns))
	copy(cols, columns)
	return &ResultSetMetaData{columns: cols}
}

// ColumnCount 返回列数
func (m *ResultSetMetaData) ColumnCount() (int, error) {
	return len(m.columns), nil
}

// ColumnLabel 返回列标签，标签为空时使用列名
func (m *ResultSetMetaData) ColumnLabel(index int) (string, error) {
	col, err := m.column(index)
	if err != nil {
		return "", err
	}
	return col.LabelOrName(), nil
}

// ColumnName 返回物理列名
func (m *ResultSetMetaData) ColumnName(index int) (string, error) {
	col, err := m.column(index)
	if err != nil {
		return "", err
	}
	return col.Name, nil
}

// IsCaseSensitive 返回列值是否区分大小写
func (m *ResultSetMetaData) IsCaseSensitive(index int) (bool, error) {
	col, err := m.column(index)
	if err != nil {
		return false, err
	}
	return col.CaseSensitive, nil
}

// TableName 返回列所属的真实表名
func (m *ResultSetMetaData) TableName(index int) (string, error) {
	col, err := m.column(index)
	if err != nil {
		return "", err
	}
	return col.Table, nil
}

// Columns 返回列元数据副本
func (m *ResultSetMetaData) Columns() []domain.ColumnMeta {
	cols := make([]domain.ColumnMeta, len(m.columns))
	copy(cols, m.columns)
	return cols
}

func (m *ResultSetMetaData) column(index int) (domain.ColumnMeta, error) {
	if index < 1 || index > len(m.columns) {
		return domain.ColumnMeta{}, domain.NewErrColumnIndexOutOfRange(index, len(m.columns))
	}
	return m.columns[index-1], nil
}
