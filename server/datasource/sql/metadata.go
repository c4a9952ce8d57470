package sql

import (
	"database/sql"
	"fmt"

	"github.com/kasuganosora/shardmeta/pkg/parser"
	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	"github.com/kasuganosora/shardmeta/pkg/resource/memory"
)

// ColumnType is the part of *sql.ColumnType the metadata builder reads.
type ColumnType interface {
	Name() string
	DatabaseTypeName() string
}

// NewResultSetMetaData builds the physical metadata of rows.
//
// database/sql only reports column labels and types, so the physical column
// and its actual table are recovered from the projection of query. Columns
// that cannot be traced to a table report an empty table name. A query the
// parser does not understand still yields labels and types.
func NewResultSetMetaData(rows *sql.Rows, query string, dialect Dialect) (*memory.ResultSetMetaData, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("get column types: %w", err)
	}

	types := make([]ColumnType, len(colTypes))
	for i, ct := range colTypes {
		types[i] = ct
	}

	projection, _ := parser.NewParser().AnalyzeProjection(query)
	return memory.NewResultSetMetaData(BuildColumns(types, projection, dialect)...), nil
}

// BuildColumns aligns the driver column types with the query projection.
//
// A single wildcard covers every column not claimed by an explicit select
// field. With several wildcards the columns cannot be told apart and only
// the driver labels are reported.
func BuildColumns(types []ColumnType, projection *parser.Projection, dialect Dialect) []domain.ColumnMeta {
	columns := make([]domain.ColumnMeta, len(types))
	for i, ct := range types {
		columns[i] = domain.ColumnMeta{
			Label:         ct.Name(),
			Name:          ct.Name(),
			Type:          dialect.MapColumnType(ct.DatabaseTypeName()),
			CaseSensitive: dialect.IsCaseSensitive(ct.DatabaseTypeName()),
		}
	}
	if projection == nil {
		return columns
	}

	wildcards := 0
	for _, field := range projection.Columns {
		if field.Wildcard {
			wildcards++
		}
	}
	expanded := len(types) - (len(projection.Columns) - wildcards)
	if wildcards > 1 || expanded < 0 || (wildcards == 0 && expanded != 0) {
		// projection and result disagree, e.g. a statement the parser read differently
		return columns
	}

	i := 0
	for _, field := range projection.Columns {
		if !field.Wildcard {
			if field.Column != "" {
				columns[i].Name = field.Column
				columns[i].Table = field.Table
			}
			i++
			continue
		}

		for n := 0; n < expanded; n++ {
			columns[i].Table = field.Table
			i++
		}
	}
	return columns
}
