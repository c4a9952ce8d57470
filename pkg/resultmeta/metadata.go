// Package resultmeta 把结果集的物理元数据翻译成分片、加密之后的逻辑元数据
package resultmeta

import "github.com/kasuganosora/shardmeta/pkg/security"

// QueryResultMetaData 单个结果集的逻辑元数据
//
// It is immutable once built. Lookups by label only touch the index built in
// New and may run concurrently; every other accessor is as safe for
// concurrent use as the underlying ResultSetMetaData.
type QueryResultMetaData struct {
	metaData     ResultSetMetaData
	shardingRule ShardingRule
	encryptRule  EncryptRule
	labels       labelIndex
}

// New 构建结果集元数据
//
// shardingRule may be nil, in which case actual table names are treated as
// logic table names. When encryptRule is nil it is taken from shardingRule,
// or NopEncryptRule when there is no sharding either. Errors raised by md
// while enumerating the columns are returned as is.
func New(md ResultSetMetaData, shardingRule ShardingRule, encryptRule EncryptRule) (*QueryResultMetaData, error) {
	if encryptRule == nil {
		if shardingRule != nil {
			encryptRule = shardingRule.EncryptRule()
		} else {
			encryptRule = NopEncryptRule{}
		}
	}

	labels, err := buildLabelIndex(md)
	if err != nil {
		return nil, err
	}

	return &QueryResultMetaData{
		metaData:     md,
		shardingRule: shardingRule,
		encryptRule:  encryptRule,
		labels:       labels,
	}, nil
}

// ColumnCount 返回列数
func (m *QueryResultMetaData) ColumnCount() (int, error) {
	return m.metaData.ColumnCount()
}

// ColumnLabel 返回列标签
func (m *QueryResultMetaData) ColumnLabel(index int) (string, error) {
	return m.metaData.ColumnLabel(index)
}

// ColumnName 返回物理列名
func (m *QueryResultMetaData) ColumnName(index int) (string, error) {
	return m.metaData.ColumnName(index)
}

// IsCaseSensitive 列值是否区分大小写
func (m *QueryResultMetaData) IsCaseSensitive(index int) (bool, error) {
	return m.metaData.IsCaseSensitive(index)
}

// ColumnIndex 按标签（忽略大小写）查找列号，重名时返回最小列号
func (m *QueryResultMetaData) ColumnIndex(label string) (int, bool) {
	return m.labels.lookup(label)
}

// EncryptRule 返回生效的加密规则，不为 nil
func (m *QueryResultMetaData) EncryptRule() EncryptRule {
	return m.encryptRule
}

// ShardingEncryptor 返回列对应逻辑列的加密器
//
// The second result is false for columns that are not encrypted.
func (m *QueryResultMetaData) ShardingEncryptor(index int) (security.Encryptor, bool, error) {
	logicTable, err := m.LogicTableName(index)
	if err != nil {
		return nil, false, err
	}
	logicColumn, err := m.logicColumn(logicTable, index)
	if err != nil {
		return nil, false, err
	}
	encryptor, ok := m.encryptRule.ShardingEncryptor(logicTable, logicColumn)
	return encryptor, ok, nil
}

// LogicTableName 返回逻辑表名，没有表规则的真实表原样返回
func (m *QueryResultMetaData) LogicTableName(index int) (string, error) {
	actualTable, err := m.metaData.TableName(index)
	if err != nil {
		return "", err
	}
	if m.shardingRule == nil {
		return actualTable, nil
	}
	if tableRule, ok := m.shardingRule.FindTableRuleByActualTable(actualTable); ok {
		return tableRule.LogicTable(), nil
	}
	return actualTable, nil
}

// LogicColumnName 返回逻辑列名，密文列返回其逻辑列
func (m *QueryResultMetaData) LogicColumnName(index int) (string, error) {
	logicTable, err := m.LogicTableName(index)
	if err != nil {
		return "", err
	}
	return m.logicColumn(logicTable, index)
}

func (m *QueryResultMetaData) logicColumn(logicTable string, index int) (string, error) {
	column, err := m.metaData.ColumnName(index)
	if err != nil {
		return "", err
	}
	if m.encryptRule.IsCipherColumn(logicTable, column) {
		return m.encryptRule.LogicColumn(logicTable, column), nil
	}
	return column, nil
}
