package rule

import (
	"fmt"

	"github.com/kasuganosora/shardmeta/pkg/config"
	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	"github.com/kasuganosora/shardmeta/pkg/resultmeta"
	"github.com/kasuganosora/shardmeta/pkg/security"
)

// BuildEncryptRule 根据配置构建加密规则，cfg 为 nil 时返回空规则
func BuildEncryptRule(cfg *config.EncryptRuleConfig) (*EncryptRule, error) {
	if cfg == nil {
		return EmptyEncryptRule(), nil
	}

	encryptors := make(map[string]security.Encryptor, len(cfg.Encryptors))
	for name, encryptorCfg := range cfg.Encryptors {
		encryptor, err := security.NewEncryptor(encryptorCfg.Type, encryptorCfg.Props)
		if err != nil {
			return nil, fmt.Errorf("encryptor %s: %w", name, err)
		}
		encryptors[name] = encryptor
	}

	tables := make([]*EncryptTable, 0, len(cfg.Tables))
	for logicTable, tableCfg := range cfg.Tables {
		columns := make([]EncryptColumn, 0, len(tableCfg.Columns))
		for logicColumn, columnCfg := range tableCfg.Columns {
			if _, ok := config.LookupEncryptor(cfg.Encryptors, columnCfg.Encryptor); !ok {
				return nil, domain.NewErrEncryptorNotFound(columnCfg.Encryptor, logicTable)
			}
			columns = append(columns, EncryptColumn{
				LogicColumn:         logicColumn,
				CipherColumn:        columnCfg.CipherColumn,
				PlainColumn:         columnCfg.PlainColumn,
				AssistedQueryColumn: columnCfg.AssistedQueryColumn,
				Encryptor:           columnCfg.Encryptor,
			})
		}
		tables = append(tables, NewEncryptTable(logicTable, columns...))
	}

	return NewEncryptRule(encryptors, tables...)
}

// BuildShardingRule 根据配置构建分片规则
func BuildShardingRule(cfg *config.ShardingRuleConfig, encryptRule *EncryptRule) (*ShardingRule, error) {
	if cfg == nil {
		return NewShardingRule(nil, encryptRule, ""), nil
	}

	tableRules := make([]*TableRule, 0, len(cfg.Tables))
	for logicTable, tableCfg := range cfg.Tables {
		tableRule, err := NewTableRule(logicTable, tableCfg.ActualDataNodes, cfg.DefaultDataSource)
		if err != nil {
			return nil, fmt.Errorf("table rule %s: %w", logicTable, err)
		}
		tableRules = append(tableRules, tableRule)
	}
	return NewShardingRule(tableRules, encryptRule, cfg.DefaultDataSource), nil
}

// Rules 一组已构建的规则
//
// Sharding is nil when no sharding section is configured; Encrypt is never nil.
type Rules struct {
	Sharding *ShardingRule
	Encrypt  *EncryptRule
}

// Build 根据规则配置构建分片和加密规则
func Build(cfg *config.RulesConfig) (*Rules, error) {
	if cfg == nil {
		return &Rules{Encrypt: EmptyEncryptRule()}, nil
	}

	encryptRule, err := BuildEncryptRule(cfg.Encrypt)
	if err != nil {
		return nil, err
	}
	rules := &Rules{Encrypt: encryptRule}
	if cfg.Sharding != nil {
		if rules.Sharding, err = BuildShardingRule(cfg.Sharding, encryptRule); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

// MetaDataRules returns the rule arguments for resultmeta.New. A missing
// sharding rule is returned as a nil interface, never a typed nil pointer.
func (r *Rules) MetaDataRules() (resultmeta.ShardingRule, resultmeta.EncryptRule) {
	var encryptRule resultmeta.EncryptRule = resultmeta.NopEncryptRule{}
	if r.Encrypt != nil && !r.Encrypt.IsEmpty() {
		encryptRule = r.Encrypt
	}
	if r.Sharding == nil {
		return nil, encryptRule
	}
	return r.Sharding, encryptRule
}
