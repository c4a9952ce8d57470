package domain

// DataSourceType 数据源类型
type DataSourceType string

// String 返回数据源类型的字符串表示
func (t DataSourceType) String() string {
	return string(t)
}

const (
	// DataSourceTypeMySQL MySQL数据源
	DataSourceTypeMySQL DataSourceType = "mysql"
	// DataSourceTypePostgreSQL PostgreSQL数据源
	DataSourceTypePostgreSQL DataSourceType = "postgresql"
	// DataSourceTypeSQLite SQLite数据源
	DataSourceTypeSQLite DataSourceType = "sqlite"
)

// DataSourceConfig 数据源配置
type DataSourceConfig struct {
	Type     DataSourceType         `json:"type" mapstructure:"type"`
	Name     string                 `json:"name" mapstructure:"name"`
	Host     string                 `json:"host,omitempty" mapstructure:"host"`
	Port     int                    `json:"port,omitempty" mapstructure:"port"`
	Username string                 `json:"username,omitempty" mapstructure:"username"`
	Password string                 `json:"password,omitempty" mapstructure:"password"`
	Database string                 `json:"database,omitempty" mapstructure:"database"`
	Options  map[string]interface{} `json:"options,omitempty" mapstructure:"options"`
}

// ColumnMeta 物理列元数据
//
// Label is what the driver reports as the column label (the alias when one
// is present), Name is the physical column name and Table the actual table
// that owns it. Table is empty for derived columns such as aggregates.
type ColumnMeta struct {
	Label         string `json:"label"`
	Name          string `json:"name"`
	Table         string `json:"table,omitempty"`
	Type          string `json:"type,omitempty"`
	CaseSensitive bool   `json:"case_sensitive"`
}

// LabelOrName 返回列标签，标签为空时回退为列名
func (c ColumnMeta) LabelOrName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}
