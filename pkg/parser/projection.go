package parser

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
)

// TableRef 查询 FROM 子句中的一张表
type TableRef struct {
	Schema string
	Name   string
	Alias  string
}

// ProjectionColumn 查询投影中的一列
type ProjectionColumn struct {
	// Label is the alias, the column name, or the restored expression text.
	Label string
	// Column is the physical column name; empty for expressions.
	Column string
	// Table is the table owning Column with aliases resolved; empty when
	// unknown.
	Table string
	// Wildcard marks "*" or "t.*". Table is set for a qualified wildcard or
	// when the query reads a single table.
	Wildcard bool
}

// Projection SELECT 语句的投影分析结果
type Projection struct {
	Columns []ProjectionColumn
	Tables  []TableRef
}

// AnalyzeProjection 分析 SELECT 语句的投影列及其来源表
func (p *Parser) AnalyzeProjection(sql string) (*Projection, error) {
	stmt, err := p.ParseSelectStmt(sql)
	if err != nil {
		return nil, err
	}
	return AnalyzeSelect(stmt), nil
}

// AnalyzeSelect 分析已解析的 SELECT 语句
func AnalyzeSelect(stmt *ast.SelectStmt) *Projection {
	projection := &Projection{}
	if stmt.From != nil && stmt.From.TableRefs != nil {
		projection.Tables = collectTables(stmt.From.TableRefs, nil)
	}
	if stmt.Fields == nil {
		return projection
	}

	for _, field := range stmt.Fields.Fields {
		projection.Columns = append(projection.Columns, projection.analyzeField(field))
	}
	return projection
}

func (p *Projection) analyzeField(field *ast.SelectField) ProjectionColumn {
	if field.WildCard != nil {
		col := ProjectionColumn{Wildcard: true, Label: "*"}
		if qualifier := field.WildCard.Table.O; qualifier != "" {
			col.Label = qualifier + ".*"
			col.Table = p.ResolveTable(qualifier)
		} else if len(p.Tables) == 1 {
			col.Table = p.Tables[0].Name
		}
		return col
	}

	col := ProjectionColumn{}
	if expr, ok := field.Expr.(*ast.ColumnNameExpr); ok {
		col.Column = expr.Name.Name.O
		col.Label = col.Column
		if qualifier := expr.Name.Table.O; qualifier != "" {
			col.Table = p.ResolveTable(qualifier)
		} else if len(p.Tables) == 1 {
			col.Table = p.Tables[0].Name
		}
	} else {
		col.Label = restore(field.Expr)
	}

	if field.AsName.O != "" {
		col.Label = field.AsName.O
	}
	return col
}

// ResolveTable 将表别名或表名解析为实际表名，无法解析时返回空串
func (p *Projection) ResolveTable(qualifier string) string {
	for _, table := range p.Tables {
		if table.Alias != "" && strings.EqualFold(table.Alias, qualifier) {
			return table.Name
		}
	}
	for _, table := range p.Tables {
		if table.Alias == "" && strings.EqualFold(table.Name, qualifier) {
			return table.Name
		}
	}
	return ""
}

// collectTables 递归收集 JOIN 树中的表
func collectTables(node ast.ResultSetNode, tables []TableRef) []TableRef {
	switch n := node.(type) {
	case *ast.Join:
		tables = collectTables(n.Left, tables)
		if n.Right != nil {
			tables = collectTables(n.Right, tables)
		}
	case *ast.TableSource:
		if tableName, ok := n.Source.(*ast.TableName); ok {
			tables = append(tables, TableRef{
				Schema: tableName.Schema.O,
				Name:   tableName.Name.O,
				Alias:  n.AsName.O,
			})
		}
	}
	return tables
}

func restore(node ast.Node) string {
	if node == nil {
		return ""
	}
	var sb strings.Builder
	if err := node.Restore(format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)); err != nil {
		return ""
	}
	return sb.String()
}
