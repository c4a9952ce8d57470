package resultmeta

import "github.com/kasuganosora/shardmeta/pkg/security"

// ResultSetMetaData 驱动返回的物理结果集元数据
//
// 列号从 1 开始。返回的错误都是驱动错误，原样向上传递。
type ResultSetMetaData interface {
	ColumnCount() (int, error)
	ColumnLabel(index int) (string, error)
	ColumnName(index int) (string, error)
	IsCaseSensitive(index int) (bool, error)
	// TableName 返回列所属的真实表
	TableName(index int) (string, error)
}

// TableRule 一组真实表对应的逻辑表
type TableRule interface {
	LogicTable() string
}

// ShardingRule 根据真实表查找表规则
type ShardingRule interface {
	FindTableRuleByActualTable(actualTable string) (TableRule, bool)
	// EncryptRule 返回与分片一起配置的加密规则，不能为 nil
	EncryptRule() EncryptRule
}

// EncryptRule 加密规则：识别密文列并查找逻辑列的加密器
type EncryptRule interface {
	IsCipherColumn(logicTable, column string) bool
	LogicColumn(logicTable, cipherColumn string) string
	ShardingEncryptor(logicTable, logicColumn string) (security.Encryptor, bool)
}

// NopEncryptRule 没有任何加密列时使用的空规则
type NopEncryptRule struct{}

func (NopEncryptRule) IsCipherColumn(string, string) bool { return false }

func (NopEncryptRule) LogicColumn(_, cipherColumn string) string { return cipherColumn }

func (NopEncryptRule) ShardingEncryptor(string, string) (security.Encryptor, bool) {
	return nil, false
}
