package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeProjection_SingleTable(t *testing.T) {
	projection, err := NewParser().AnalyzeProjection(
		"SELECT order_id, id_card_cipher AS id_card, status FROM t_order_0 WHERE user_id = 1")
	require.NoError(t, err)

	assert.Equal(t, []TableRef{{Name: "t_order_0"}}, projection.Tables)
	assert.Equal(t, []ProjectionColumn{
		{Label: "order_id", Column: "order_id", Table: "t_order_0"},
		{Label: "id_card", Column: "id_card_cipher", Table: "t_order_0"},
		{Label: "status", Column: "status", Table: "t_order_0"},
	}, projection.Columns)
}

func TestAnalyzeProjection_JoinWithAliases(t *testing.T) {
	projection, err := NewParser().AnalyzeProjection(
		"SELECT o.order_id, i.item_id AS item, u.name FROM ds_0.t_order_1 o " +
			"JOIN t_order_item_1 AS i ON o.order_id = i.order_id " +
			"LEFT JOIN t_user u ON u.user_id = o.user_id")
	require.NoError(t, err)

	assert.Equal(t, []TableRef{
		{Schema: "ds_0", Name: "t_order_1", Alias: "o"},
		{Name: "t_order_item_1", Alias: "i"},
		{Name: "t_user", Alias: "u"},
	}, projection.Tables)
	require.Len(t, projection.Columns, 3)
	assert.Equal(t, ProjectionColumn{Label: "order_id", Column: "order_id", Table: "t_order_1"}, projection.Columns[0])
	assert.Equal(t, ProjectionColumn{Label: "item", Column: "item_id", Table: "t_order_item_1"}, projection.Columns[1])
	assert.Equal(t, ProjectionColumn{Label: "name", Column: "name", Table: "t_user"}, projection.Columns[2])
}

func TestAnalyzeProjection_UnqualifiedColumnInJoin(t *testing.T) {
	projection, err := NewParser().AnalyzeProjection("SELECT name FROM t_a JOIN t_b ON t_a.id = t_b.id")
	require.NoError(t, err)

	require.Len(t, projection.Columns, 1)
	assert.Equal(t, "name", projection.Columns[0].Column)
	assert.Empty(t, projection.Columns[0].Table)
}

func TestAnalyzeProjection_Wildcards(t *testing.T) {
	p := NewParser()

	projection, err := p.AnalyzeProjection("SELECT * FROM t_order_0")
	require.NoError(t, err)
	require.Len(t, projection.Columns, 1)
	assert.Equal(t, ProjectionColumn{Label: "*", Table: "t_order_0", Wildcard: true}, projection.Columns[0])

	projection, err = p.AnalyzeProjection("SELECT o.*, i.item_id FROM t_order_0 o, t_order_item_0 i")
	require.NoError(t, err)
	require.Len(t, projection.Columns, 2)
	assert.Equal(t, ProjectionColumn{Label: "o.*", Table: "t_order_0", Wildcard: true}, projection.Columns[0])
	assert.Equal(t, "t_order_item_0", projection.Columns[1].Table)
}

func TestAnalyzeProjection_Expressions(t *testing.T) {
	projection, err := NewParser().AnalyzeProjection("SELECT COUNT(*) AS total, price * 2 FROM t_order_0")
	require.NoError(t, err)
	require.Len(t, projection.Columns, 2)

	assert.Equal(t, "total", projection.Columns[0].Label)
	assert.Empty(t, projection.Columns[0].Column)
	assert.Empty(t, projection.Columns[0].Table)

	assert.NotEmpty(t, projection.Columns[1].Label)
	assert.Empty(t, projection.Columns[1].Column)
}

func TestAnalyzeProjection_NoFrom(t *testing.T) {
	projection, err := NewParser().AnalyzeProjection("SELECT 1 AS one")
	require.NoError(t, err)
	assert.Empty(t, projection.Tables)
	require.Len(t, projection.Columns, 1)
	assert.Equal(t, "one", projection.Columns[0].Label)
}

func TestAnalyzeProjection_NotSelect(t *testing.T) {
	_, err := NewParser().AnalyzeProjection("UPDATE t_order SET status = 'x'")
	assert.ErrorIs(t, err, ErrNotSelect)
}

func TestResolveTable(t *testing.T) {
	projection := &Projection{Tables: []TableRef{
		{Name: "t_order_0", Alias: "o"},
		{Name: "t_user"},
	}}

	assert.Equal(t, "t_order_0", projection.ResolveTable("O"))
	assert.Equal(t, "t_user", projection.ResolveTable("t_user"))
	assert.Empty(t, projection.ResolveTable("t_order_0"))
	assert.Empty(t, projection.ResolveTable("x"))
}
