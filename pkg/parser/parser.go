package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

// ErrNotSelect is returned when a statement is expected to be a SELECT.
var ErrNotSelect = errors.New("not a SELECT statement")

// Parser SQL 解析器，封装 TiDB parser
//
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	parser *parser.Parser
}

// NewParser 创建新的 SQL 解析器
func NewParser() *Parser {
	return &Parser{
		parser: parser.New(),
	}
}

// ParseSQL 解析 SQL 语句，返回 AST 节点列表
func (p *Parser) ParseSQL(sql string) ([]ast.StmtNode, error) {
	stmtNodes, _, err := p.parser.ParseSQL(sql)
	if err != nil {
		return nil, fmt.Errorf("parse sql: %w", err)
	}
	return stmtNodes, nil
}

// ParseOneStmt 解析单条 SQL 语句
func (p *Parser) ParseOneStmt(sql string) (ast.StmtNode, error) {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return nil, errors.New("empty sql statement")
	}
	stmts, err := p.ParseSQL(sql)
	if err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, errors.New("no sql statement parsed")
	}
	return stmts[0], nil
}

// ParseSelectStmt 解析 SELECT 语句
func (p *Parser) ParseSelectStmt(sql string) (*ast.SelectStmt, error) {
	stmt, err := p.ParseOneStmt(sql)
	if err != nil {
		return nil, err
	}

	selectStmt, ok := stmt.(*ast.SelectStmt)
	if !ok {
		return nil, ErrNotSelect
	}
	return selectStmt, nil
}
