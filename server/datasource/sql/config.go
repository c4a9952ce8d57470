package sql

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
)

// SQLConfig holds shared SQL datasource configuration
type SQLConfig struct {
	// Connection pool
	MaxOpenConns    int `mapstructure:"max_open_conns"`
	MaxIdleConns    int `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`  // seconds
	ConnMaxIdleTime int `mapstructure:"conn_max_idle_time"` // seconds

	// TLS/SSL
	SSLMode     string `mapstructure:"ssl_mode"`
	SSLCert     string `mapstructure:"ssl_cert"`
	SSLKey      string `mapstructure:"ssl_key"`
	SSLRootCert string `mapstructure:"ssl_root_cert"`

	// MySQL-specific
	Charset   string `mapstructure:"charset"`
	Collation string `mapstructure:"collation"`
	ParseTime *bool  `mapstructure:"parse_time"`

	// PostgreSQL-specific
	Schema string `mapstructure:"schema"`

	// General
	ConnectTimeout int `mapstructure:"connect_timeout"` // seconds
}

// ParseSQLConfig extracts SQLConfig from DataSourceConfig.Options
func ParseSQLConfig(dsCfg *domain.DataSourceConfig) (*SQLConfig, error) {
	cfg := &SQLConfig{}

	if dsCfg.Options != nil {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           cfg,
		})
		if err != nil {
			return nil, fmt.Errorf("create options decoder: %w", err)
		}
		if err := decoder.Decode(dsCfg.Options); err != nil {
			return nil, domain.NewErrInvalidConfig("datasource.options", err.Error())
		}
	}

	// Apply defaults
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = 300
	}
	if cfg.ConnMaxIdleTime <= 0 {
		cfg.ConnMaxIdleTime = 60
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10
	}
	if cfg.Charset == "" {
		cfg.Charset = "utf8mb4"
	}
	if cfg.Collation == "" {
		cfg.Collation = "utf8mb4_unicode_ci"
	}
	if cfg.ParseTime == nil {
		t := true
		cfg.ParseTime = &t
	}
	if cfg.Schema == "" {
		cfg.Schema = "public"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}

	return cfg, nil
}
