package api

import (
	"errors"
	"fmt"
	"io"

	"github.com/kasuganosora/shardmeta/pkg/resultmeta"
	"github.com/kasuganosora/shardmeta/pkg/rule"
	"github.com/kasuganosora/shardmeta/pkg/security"
	"github.com/kasuganosora/shardmeta/server/protocol"
)

// ProtocolOptions 读取 MySQL 协议结果集头部的选项
type ProtocolOptions struct {
	ClientCapabilities  uint32
	MariaDBCapabilities uint32
	// ResultsCollation character_set_results 对应的排序规则编号，0 表示 UTF-8
	ResultsCollation uint16
	Rules            *rule.Rules
}

// ProtocolResult 从 MySQL 协议流读出的结果集元数据，行数据留在流上
type ProtocolResult struct {
	physical *protocol.ColumnDefinitions
	meta     *resultmeta.QueryResultMetaData
}

// ReadProtocolResult 读取列数包与列定义包并构建逻辑元数据
func ReadProtocolResult(r io.Reader, opts ProtocolOptions) (*ProtocolResult, error) {
	fields, err := protocol.ReadResultSetColumns(r, opts.ClientCapabilities, opts.MariaDBCapabilities)
	if err != nil {
		var serverErr *protocol.ServerError
		if errors.As(err, &serverErr) || errors.Is(err, protocol.ErrNoResultSet) {
			return nil, WrapError(err, ErrCodeQuery, "read result set")
		}
		return nil, WrapError(err, ErrCodeMetadata, "read column definitions")
	}

	fields, err = protocol.DecodeFieldNames(fields, opts.ResultsCollation)
	if err != nil {
		return nil, WrapError(err, ErrCodeMetadata, "decode column definitions")
	}
	physical := protocol.NewColumnDefinitions(fields)

	rules := opts.Rules
	if rules == nil {
		rules = &rule.Rules{Encrypt: rule.EmptyEncryptRule()}
	}
	shardingRule, encryptRule := rules.MetaDataRules()
	meta, err := resultmeta.New(physical, shardingRule, encryptRule)
	if err != nil {
		return nil, WrapError(err, ErrCodeMetadata, "build result metadata")
	}
	return &ProtocolResult{physical: physical, meta: meta}, nil
}

// Metadata 返回逻辑结果集元数据
func (p *ProtocolResult) Metadata() *resultmeta.QueryResultMetaData {
	return p.meta
}

// ColumnDefinitions 返回物理列定义
func (p *ProtocolResult) ColumnDefinitions() *protocol.ColumnDefinitions {
	return p.physical
}

// Encryptor 返回第 index 列（从 1 开始）的解密器，未加密列返回 nil
func (p *ProtocolResult) Encryptor(index int) (security.Encryptor, error) {
	encryptor, ok, err := p.meta.ShardingEncryptor(index)
	if err != nil {
		return nil, WrapError(err, ErrCodeMetadata, fmt.Sprintf("resolve encryptor for column %d", index))
	}
	if !ok {
		return nil, nil
	}
	return encryptor, nil
}

// Describe 按列顺序描述每一列，Index 从 1 开始
func (p *ProtocolResult) Describe() ([]ColumnDescription, error) {
	count, err := p.meta.ColumnCount()
	if err != nil {
		return nil, WrapError(err, ErrCodeMetadata, "column count")
	}

	descriptions := make([]ColumnDescription, count)
	for i := range descriptions {
		encryptor, err := p.Encryptor(i + 1)
		if err != nil {
			return nil, err
		}
		if descriptions[i], err = describeColumn(p.physical, p.meta, i+1, encryptor); err != nil {
			return nil, err
		}
	}
	return descriptions, nil
}
