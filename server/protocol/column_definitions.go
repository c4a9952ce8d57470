package protocol

import (
	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	"github.com/kasuganosora/shardmeta/pkg/resultmeta"
)

var _ resultmeta.ResultSetMetaData = (*ColumnDefinitions)(nil)

// ColumnDefinitions 基于列定义包的结果集元数据
//
// The column label is the (possibly aliased) name, the column name is the
// original column name and the table is the original table, so a column read
// through an alias or from a view of a sharded table still reports its
// actual table.
type ColumnDefinitions struct {
	fields []FieldMeta
}

// NewColumnDefinitions 创建列定义元数据，fields 会被复制
func NewColumnDefinitions(fields []FieldMeta) *ColumnDefinitions {
	copied := make([]FieldMeta, len(fields))
	copy(copied, fields)
	return &ColumnDefinitions{fields: copied}
}

func (c *ColumnDefinitions) ColumnCount() (int, error) {
	return len(c.fields), nil
}

func (c *ColumnDefinitions) ColumnLabel(index int) (string, error) {
	field, err := c.field(index)
	if err != nil {
		return "", err
	}
	return field.Name, nil
}

// ColumnName 返回原始列名，表达式列没有原始列名时返回标签
func (c *ColumnDefinitions) ColumnName(index int) (string, error) {
	field, err := c.field(index)
	if err != nil {
		return "", err
	}
	if field.OrgName != "" {
		return field.OrgName, nil
	}
	return field.Name, nil
}

// IsCaseSensitive 字符类型在二进制排序规则下区分大小写，数值和时间类型不区分
func (c *ColumnDefinitions) IsCaseSensitive(index int) (bool, error) {
	field, err := c.field(index)
	if err != nil {
		return false, err
	}
	return isCaseSensitive(field), nil
}

// TableName 返回原始表名，没有原始表名时返回表别名
func (c *ColumnDefinitions) TableName(index int) (string, error) {
	field, err := c.field(index)
	if err != nil {
		return "", err
	}
	if field.OrgTable != "" {
		return field.OrgTable, nil
	}
	return field.Table, nil
}

// Columns 转换为通用的列元数据
func (c *ColumnDefinitions) Columns() []domain.ColumnMeta {
	columns := make([]domain.ColumnMeta, 0, len(c.fields))
	for i := range c.fields {
		field := c.fields[i]
		table := field.OrgTable
		if table == "" {
			table = field.Table
		}
		name := field.OrgName
		if name == "" {
			name = field.Name
		}
		columns = append(columns, domain.ColumnMeta{
			Label:         field.Name,
			Name:          name,
			Table:         table,
			Type:          GetTypeName(field.Type),
			CaseSensitive: isCaseSensitive(field),
		})
	}
	return columns
}

func (c *ColumnDefinitions) field(index int) (FieldMeta, error) {
	if index < 1 || index > len(c.fields) {
		return FieldMeta{}, domain.NewErrColumnIndexOutOfRange(index, len(c.fields))
	}
	return c.fields[index-1], nil
}

func isCaseSensitive(field FieldMeta) bool {
	switch field.Type {
	case MYSQL_TYPE_VARCHAR, MYSQL_TYPE_VAR_STRING, MYSQL_TYPE_STRING,
		MYSQL_TYPE_TINY_BLOB, MYSQL_TYPE_MEDIUM_BLOB, MYSQL_TYPE_LONG_BLOB, MYSQL_TYPE_BLOB,
		MYSQL_TYPE_ENUM, MYSQL_TYPE_SET, MYSQL_TYPE_JSON:
	default:
		return false
	}
	return field.Flags&BINARY_COLLATION_FLAG != 0 || IsCaseSensitiveCollation(field.CharacterSet)
}
