package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
datasource:
  type: mysql
  name: ds_0
  host: 127.0.0.1
  port: 3307
  username: root
  database: demo_ds_0
log:
  level: debug
  format: json
rules:
  sharding:
    default_data_source: ds_0
    tables:
      t_order:
        actual_data_nodes: ds_${0..1}.t_order_${0..1}
  encrypt:
    encryptors:
      aes_enc:
        type: AES
        props:
          aes.key.value: 123456abcdef
      md5_enc:
        type: MD5
    tables:
      t_order:
        columns:
          id_card:
            cipher_column: id_card_cipher
            plain_column: id_card_plain
            assisted_query_column: id_card_assisted
            encryptor: aes_enc
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, domain.DataSourceTypeSQLite, config.DataSource.Type)
	assert.Equal(t, ":memory:", config.DataSource.Database)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.False(t, config.MCP.Enabled)
	assert.Equal(t, "127.0.0.1:8090", config.GetListenAddress())
	assert.Nil(t, config.Rules.Sharding)
	assert.Nil(t, config.Rules.Encrypt)
	assert.NoError(t, validateConfig(config))
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_YAML(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "shardmeta.yaml", testYAML))
	require.NoError(t, err)

	assert.Equal(t, domain.DataSourceTypeMySQL, config.DataSource.Type)
	assert.Equal(t, "127.0.0.1", config.DataSource.Host)
	assert.Equal(t, 3307, config.DataSource.Port)
	assert.Equal(t, "demo_ds_0", config.DataSource.Database)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)

	// MCP section falls back to defaults
	assert.Equal(t, 8090, config.MCP.Port)

	require.NotNil(t, config.Rules.Sharding)
	assert.Equal(t, "ds_0", config.Rules.Sharding.DefaultDataSource)
	assert.Equal(t, "ds_${0..1}.t_order_${0..1}", config.Rules.Sharding.Tables["t_order"].ActualDataNodes)

	require.NotNil(t, config.Rules.Encrypt)
	aes := config.Rules.Encrypt.Encryptors["aes_enc"]
	assert.Equal(t, "AES", aes.Type)
	assert.Equal(t, "123456abcdef", aes.Props["aes.key.value"])
	assert.Equal(t, "MD5", config.Rules.Encrypt.Encryptors["md5_enc"].Type)

	column := config.Rules.Encrypt.Tables["t_order"].Columns["id_card"]
	assert.Equal(t, "id_card_cipher", column.CipherColumn)
	assert.Equal(t, "id_card_plain", column.PlainColumn)
	assert.Equal(t, "id_card_assisted", column.AssistedQueryColumn)
	assert.Equal(t, "aes_enc", column.Encryptor)
}

func TestLoadConfig_JSON(t *testing.T) {
	content := `{
  "datasource": {"type": "sqlite", "database": "/tmp/demo.db"},
  "mcp": {"enabled": true, "port": 9000}
}`
	config, err := LoadConfig(writeConfig(t, "shardmeta.json", content))
	require.NoError(t, err)

	assert.Equal(t, domain.DataSourceTypeSQLite, config.DataSource.Type)
	assert.Equal(t, "/tmp/demo.db", config.DataSource.Database)
	assert.True(t, config.MCP.Enabled)
	assert.Equal(t, "127.0.0.1:9000", config.GetListenAddress())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SHARDMETA_DATASOURCE_PASSWORD", "s3cret")
	t.Setenv("SHARDMETA_LOG_LEVEL", "warn")

	config, err := LoadConfig(writeConfig(t, "shardmeta.yaml", testYAML))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", config.DataSource.Password)
	assert.Equal(t, "warn", config.Log.Level)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
	}{
		{"unknown datasource", func(c *Config) { c.DataSource.Type = "oracle" }, "datasource.type"},
		{"sqlite without database", func(c *Config) { c.DataSource.Database = "" }, "datasource.database"},
		{"mysql without host", func(c *Config) { c.DataSource.Type = domain.DataSourceTypeMySQL }, "datasource.host"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad mcp port", func(c *Config) {
			c.MCP.Enabled = true
			c.MCP.Port = 0
		}, "mcp.port"},
		{"table without nodes", func(c *Config) {
			c.Rules.Sharding = &ShardingRuleConfig{Tables: map[string]TableRuleConfig{"t_order": {}}}
		}, "rules.sharding.tables.t_order"},
		{"encryptor without type", func(c *Config) {
			c.Rules.Encrypt = &EncryptRuleConfig{Encryptors: map[string]EncryptorConfig{"e": {}}}
		}, "rules.encrypt.encryptors.e"},
		{"column without cipher", func(c *Config) {
			c.Rules.Encrypt = &EncryptRuleConfig{Tables: map[string]EncryptTableConfig{
				"t_user": {Columns: map[string]EncryptColumnConfig{"pwd": {Encryptor: "e"}}},
			}}
		}, "rules.encrypt.tables.t_user.columns.pwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := validateConfig(config)
			var target *domain.ErrInvalidConfig
			require.True(t, errors.As(err, &target), "got %v", err)
			assert.Equal(t, tt.key, target.ConfigKey)
		})
	}
}

func TestValidateConfig_UnknownEncryptorReference(t *testing.T) {
	config := DefaultConfig()
	config.Rules.Encrypt = &EncryptRuleConfig{
		Encryptors: map[string]EncryptorConfig{"aes_enc": {Type: "AES"}},
		Tables: map[string]EncryptTableConfig{
			"t_user": {Columns: map[string]EncryptColumnConfig{
				"pwd": {CipherColumn: "pwd_cipher", Encryptor: "missing"},
			}},
		},
	}

	err := validateConfig(config)
	var target *domain.ErrEncryptorNotFound
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "missing", target.Name)
	assert.Equal(t, "t_user", target.Table)
}

func TestLookupEncryptor(t *testing.T) {
	encryptors := map[string]EncryptorConfig{"aes_enc": {Type: "AES"}}

	enc, ok := LookupEncryptor(encryptors, "AES_ENC")
	assert.True(t, ok)
	assert.Equal(t, "AES", enc.Type)

	_, ok = LookupEncryptor(encryptors, "md5")
	assert.False(t, ok)
}
