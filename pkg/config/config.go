package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	"github.com/spf13/viper"
)

// keyDelimiter 配置键分隔符
//
// Encryptor properties use dotted names such as "aes.key.value", so the
// default "." delimiter would split them into nested maps.
const keyDelimiter = "::"

// envPrefix 环境变量前缀
const envPrefix = "SHARDMETA"

// Config 应用程序配置
type Config struct {
	DataSource domain.DataSourceConfig `mapstructure:"datasource"`
	Log        LogConfig               `mapstructure:"log"`
	MCP        MCPConfig               `mapstructure:"mcp"`
	Rules      RulesConfig             `mapstructure:"rules"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// MCPConfig MCP服务配置
type MCPConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	// Token 非空时要求 "Authorization: Bearer <token>"
	Token string `mapstructure:"token"`
}

// RulesConfig 分片与加密规则配置
type RulesConfig struct {
	Sharding *ShardingRuleConfig `mapstructure:"sharding"`
	Encrypt  *EncryptRuleConfig  `mapstructure:"encrypt"`
}

// ShardingRuleConfig 分片规则配置
type ShardingRuleConfig struct {
	DefaultDataSource string                     `mapstructure:"default_data_source"`
	Tables            map[string]TableRuleConfig `mapstructure:"tables"`
}

// TableRuleConfig 分片表规则配置
type TableRuleConfig struct {
	// ActualDataNodes is an inline expression such as "ds_${0..1}.t_order_${0..1}".
	ActualDataNodes string `mapstructure:"actual_data_nodes"`
}

// EncryptRuleConfig 加密规则配置
type EncryptRuleConfig struct {
	Encryptors map[string]EncryptorConfig    `mapstructure:"encryptors"`
	Tables     map[string]EncryptTableConfig `mapstructure:"tables"`
}

// EncryptorConfig 加密器配置
type EncryptorConfig struct {
	Type  string            `mapstructure:"type"`
	Props map[string]string `mapstructure:"props"`
}

// EncryptTableConfig 加密表配置，键为逻辑列名
type EncryptTableConfig struct {
	Columns map[string]EncryptColumnConfig `mapstructure:"columns"`
}

// EncryptColumnConfig 加密列配置
type EncryptColumnConfig struct {
	CipherColumn        string `mapstructure:"cipher_column"`
	PlainColumn         string `mapstructure:"plain_column"`
	AssistedQueryColumn string `mapstructure:"assisted_query_column"`
	Encryptor           string `mapstructure:"encryptor"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		DataSource: domain.DataSourceConfig{
			Type:     domain.DataSourceTypeSQLite,
			Name:     "default",
			Database: ":memory:",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		MCP: MCPConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    8090,
		},
	}
}

// LoadConfig 从文件加载配置，支持 yaml/json/toml（按扩展名识别）
func LoadConfig(configPath string) (*Config, error) {
	// 如果没有指定配置文件，使用默认配置
	if configPath == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigOrDefault 尝试从环境变量和常见位置加载配置文件
func LoadConfigOrDefault() *Config {
	possiblePaths := []string{
		"shardmeta.yaml",
		"./config/shardmeta.yaml",
		"shardmeta.json",
		"/etc/shardmeta/shardmeta.yaml",
	}

	if envPath := os.Getenv(envPrefix + "_CONFIG"); envPath != "" {
		if config, err := LoadConfig(envPath); err == nil {
			return config
		}
	}

	for _, path := range possiblePaths {
		if absPath, err := filepath.Abs(path); err == nil {
			if config, err := LoadConfig(absPath); err == nil {
				return config
			}
		}
	}

	return DefaultConfig()
}

// newViper 创建带默认值和环境变量覆盖的 viper 实例
//
// Scalar settings can be overridden with SHARDMETA_<SECTION>_<KEY>, for
// example SHARDMETA_DATASOURCE_PASSWORD.
func newViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	defaults := map[string]interface{}{
		"datasource::type":     string(def.DataSource.Type),
		"datasource::name":     def.DataSource.Name,
		"datasource::host":     def.DataSource.Host,
		"datasource::port":     def.DataSource.Port,
		"datasource::username": def.DataSource.Username,
		"datasource::password": def.DataSource.Password,
		"datasource::database": def.DataSource.Database,
		"log::level":           def.Log.Level,
		"log::format":          def.Log.Format,
		"mcp::enabled":         def.MCP.Enabled,
		"mcp::host":            def.MCP.Host,
		"mcp::port":            def.MCP.Port,
		"mcp::token":           def.MCP.Token,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// validateConfig 验证配置
func validateConfig(config *Config) error {
	switch config.DataSource.Type {
	case domain.DataSourceTypeSQLite:
		if config.DataSource.Database == "" {
			return domain.NewErrInvalidConfig("datasource.database", "sqlite requires a database path")
		}
	case domain.DataSourceTypeMySQL, domain.DataSourceTypePostgreSQL:
		if config.DataSource.Host == "" {
			return domain.NewErrInvalidConfig("datasource.host", fmt.Sprintf("%s requires a host", config.DataSource.Type))
		}
		if config.DataSource.Port < 0 || config.DataSource.Port > 65535 {
			return domain.NewErrInvalidConfig("datasource.port", fmt.Sprintf("invalid port %d", config.DataSource.Port))
		}
	default:
		return domain.NewErrInvalidConfig("datasource.type", fmt.Sprintf("unknown type %q", config.DataSource.Type))
	}

	switch strings.ToLower(config.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return domain.NewErrInvalidConfig("log.level", fmt.Sprintf("unknown level %q", config.Log.Level))
	}

	if config.MCP.Enabled && (config.MCP.Port < 1 || config.MCP.Port > 65535) {
		return domain.NewErrInvalidConfig("mcp.port", fmt.Sprintf("invalid port %d", config.MCP.Port))
	}

	return validateRules(&config.Rules)
}

func validateRules(rules *RulesConfig) error {
	if rules.Sharding != nil {
		for logicTable, table := range rules.Sharding.Tables {
			if table.ActualDataNodes == "" {
				return domain.NewErrInvalidConfig("rules.sharding.tables."+logicTable, "actual_data_nodes is required")
			}
		}
	}

	if rules.Encrypt == nil {
		return nil
	}
	for name, encryptor := range rules.Encrypt.Encryptors {
		if encryptor.Type == "" {
			return domain.NewErrInvalidConfig("rules.encrypt.encryptors."+name, "type is required")
		}
	}
	for logicTable, table := range rules.Encrypt.Tables {
		for logicColumn, column := range table.Columns {
			key := "rules.encrypt.tables." + logicTable + ".columns." + logicColumn
			if column.CipherColumn == "" {
				return domain.NewErrInvalidConfig(key, "cipher_column is required")
			}
			if _, ok := LookupEncryptor(rules.Encrypt.Encryptors, column.Encryptor); !ok {
				return domain.NewErrEncryptorNotFound(column.Encryptor, logicTable)
			}
		}
	}
	return nil
}

// LookupEncryptor 按名称查找加密器配置，名称不区分大小写
//
// Keys read through viper are lower-cased while references to them are not.
func LookupEncryptor(encryptors map[string]EncryptorConfig, name string) (EncryptorConfig, bool) {
	if encryptor, ok := encryptors[name]; ok {
		return encryptor, true
	}
	for key, encryptor := range encryptors {
		if strings.EqualFold(key, name) {
			return encryptor, true
		}
	}
	return EncryptorConfig{}, false
}

// GetListenAddress 返回 MCP 监听地址
func (c *Config) GetListenAddress() string {
	return fmt.Sprintf("%s:%d", c.MCP.Host, c.MCP.Port)
}
