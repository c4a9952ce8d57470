package rule

import (
	"sort"
	"strings"

	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	"github.com/kasuganosora/shardmeta/pkg/security"
)

// EncryptColumn 加密列规则
type EncryptColumn struct {
	LogicColumn         string
	CipherColumn        string
	PlainColumn         string
	AssistedQueryColumn string
	Encryptor           string
}

// EncryptTable 加密表规则
type EncryptTable struct {
	logicTable string
	columns    []EncryptColumn
}

// NewEncryptTable 创建加密表规则
func NewEncryptTable(logicTable string, columns ...EncryptColumn) *EncryptTable {
	table := &EncryptTable{logicTable: logicTable, columns: make([]EncryptColumn, len(columns))}
	copy(table.columns, columns)
	sort.SliceStable(table.columns, func(i, j int) bool {
		return table.columns[i].LogicColumn < table.columns[j].LogicColumn
	})
	return table
}

// LogicTable 返回逻辑表名
func (t *EncryptTable) LogicTable() string {
	return t.logicTable
}

// Columns 返回加密列规则的副本
func (t *EncryptTable) Columns() []EncryptColumn {
	columns := make([]EncryptColumn, len(t.columns))
	copy(columns, t.columns)
	return columns
}

func (t *EncryptTable) byLogic(logicColumn string) (EncryptColumn, bool) {
	for _, column := range t.columns {
		if strings.EqualFold(column.LogicColumn, logicColumn) {
			return column, true
		}
	}
	return EncryptColumn{}, false
}

func (t *EncryptTable) byCipher(cipherColumn string) (EncryptColumn, bool) {
	for _, column := range t.columns {
		if strings.EqualFold(column.CipherColumn, cipherColumn) {
			return column, true
		}
	}
	return EncryptColumn{}, false
}

// EncryptRule 加密规则
//
// Table, column and encryptor names are matched case-insensitively. An
// EncryptRule is immutable once built.
type EncryptRule struct {
	encryptors map[string]security.Encryptor
	tables     map[string]*EncryptTable
}

// EmptyEncryptRule 返回不包含任何加密表的规则
func EmptyEncryptRule() *EncryptRule {
	return &EncryptRule{
		encryptors: map[string]security.Encryptor{},
		tables:     map[string]*EncryptTable{},
	}
}

// NewEncryptRule 创建加密规则
//
// Every column must reference one of encryptors, otherwise an
// *domain.ErrEncryptorNotFound is returned.
func NewEncryptRule(encryptors map[string]security.Encryptor, tables ...*EncryptTable) (*EncryptRule, error) {
	rule := EmptyEncryptRule()
	for name, encryptor := range encryptors {
		rule.encryptors[strings.ToLower(name)] = encryptor
	}
	for _, table := range tables {
		for _, column := range table.columns {
			if _, ok := rule.encryptors[strings.ToLower(column.Encryptor)]; !ok {
				return nil, domain.NewErrEncryptorNotFound(column.Encryptor, table.logicTable)
			}
		}
		rule.tables[strings.ToLower(table.logicTable)] = table
	}
	return rule, nil
}

func (r *EncryptRule) table(logicTable string) (*EncryptTable, bool) {
	table, ok := r.tables[strings.ToLower(logicTable)]
	return table, ok
}

// IsEmpty 是否没有任何加密表
func (r *EncryptRule) IsEmpty() bool {
	return len(r.tables) == 0
}

// IsCipherColumn reports whether column is a configured cipher column of logicTable.
func (r *EncryptRule) IsCipherColumn(logicTable, column string) bool {
	table, ok := r.table(logicTable)
	if !ok {
		return false
	}
	_, ok = table.byCipher(column)
	return ok
}

// LogicColumn 返回密文列对应的逻辑列，未配置时原样返回
func (r *EncryptRule) LogicColumn(logicTable, cipherColumn string) string {
	if table, ok := r.table(logicTable); ok {
		if column, ok := table.byCipher(cipherColumn); ok {
			return column.LogicColumn
		}
	}
	return cipherColumn
}

// CipherColumn 返回逻辑列对应的密文列
func (r *EncryptRule) CipherColumn(logicTable, logicColumn string) (string, bool) {
	column, ok := r.column(logicTable, logicColumn)
	if !ok {
		return "", false
	}
	return column.CipherColumn, true
}

// PlainColumn 返回逻辑列对应的明文列，仅在配置时存在
func (r *EncryptRule) PlainColumn(logicTable, logicColumn string) (string, bool) {
	column, ok := r.column(logicTable, logicColumn)
	if !ok || column.PlainColumn == "" {
		return "", false
	}
	return column.PlainColumn, true
}

// AssistedQueryColumn 返回逻辑列对应的辅助查询列，仅在配置时存在
func (r *EncryptRule) AssistedQueryColumn(logicTable, logicColumn string) (string, bool) {
	column, ok := r.column(logicTable, logicColumn)
	if !ok || column.AssistedQueryColumn == "" {
		return "", false
	}
	return column.AssistedQueryColumn, true
}

// ShardingEncryptor 返回逻辑列使用的加密器
func (r *EncryptRule) ShardingEncryptor(logicTable, logicColumn string) (security.Encryptor, bool) {
	column, ok := r.column(logicTable, logicColumn)
	if !ok {
		return nil, false
	}
	encryptor, ok := r.encryptors[strings.ToLower(column.Encryptor)]
	return encryptor, ok
}

// EncryptTableNames 返回所有加密逻辑表名，按字母排序
func (r *EncryptRule) EncryptTableNames() []string {
	names := make([]string, 0, len(r.tables))
	for _, table := range r.tables {
		names = append(names, table.logicTable)
	}
	sort.Strings(names)
	return names
}

// FindEncryptTable 按逻辑表名查找加密表规则
func (r *EncryptRule) FindEncryptTable(logicTable string) (*EncryptTable, bool) {
	return r.table(logicTable)
}

func (r *EncryptRule) column(logicTable, logicColumn string) (EncryptColumn, bool) {
	table, ok := r.table(logicTable)
	if !ok {
		return EncryptColumn{}, false
	}
	return table.byLogic(logicColumn)
}
