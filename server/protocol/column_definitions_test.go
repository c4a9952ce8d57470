package protocol

import (
	"testing"

	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnDefinitions(t *testing.T) {
	defs := NewColumnDefinitions([]FieldMeta{
		{Table: "o", OrgTable: "t_order_0", Name: "order_id", OrgName: "order_id", Type: MYSQL_TYPE_LONGLONG, CharacterSet: CHARSET_BINARY, Flags: BINARY_COLLATION_FLAG},
		orderCipherField(),
		{Name: "total", Type: MYSQL_TYPE_NEWDECIMAL},
		{Table: "t_user", Name: "name", OrgName: "name", Type: MYSQL_TYPE_VAR_STRING, CharacterSet: CHARSET_UTF8MB4_GENERAL_CI},
	})

	count, err := defs.ColumnCount()
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	label, err := defs.ColumnLabel(2)
	require.NoError(t, err)
	assert.Equal(t, "id_card", label)

	name, err := defs.ColumnName(2)
	require.NoError(t, err)
	assert.Equal(t, "id_card_cipher", name)

	table, err := defs.TableName(1)
	require.NoError(t, err)
	assert.Equal(t, "t_order_0", table)

	// expressions have no original column or table
	name, err = defs.ColumnName(3)
	require.NoError(t, err)
	assert.Equal(t, "total", name)
	table, err = defs.TableName(3)
	require.NoError(t, err)
	assert.Empty(t, table)

	table, err = defs.TableName(4)
	require.NoError(t, err)
	assert.Equal(t, "t_user", table)
}

func TestColumnDefinitions_CaseSensitivity(t *testing.T) {
	defs := NewColumnDefinitions([]FieldMeta{
		{Name: "id", Type: MYSQL_TYPE_LONGLONG, CharacterSet: CHARSET_BINARY, Flags: BINARY_COLLATION_FLAG},
		{Name: "code", Type: MYSQL_TYPE_VAR_STRING, CharacterSet: CHARSET_UTF8MB4_BIN},
		{Name: "data", Type: MYSQL_TYPE_BLOB, CharacterSet: CHARSET_BINARY},
		{Name: "title", Type: MYSQL_TYPE_VAR_STRING, CharacterSet: CHARSET_UTF8MB4_0900_AI_CI},
		{Name: "tag", Type: MYSQL_TYPE_STRING, CharacterSet: CHARSET_UTF8MB4_GENERAL_CI, Flags: BINARY_COLLATION_FLAG},
	})

	expected := []bool{false, true, true, false, true}
	for i, want := range expected {
		got, err := defs.IsCaseSensitive(i + 1)
		require.NoError(t, err)
		assert.Equal(t, want, got, "column %d", i+1)
	}
}

func TestColumnDefinitions_OutOfRange(t *testing.T) {
	defs := NewColumnDefinitions([]FieldMeta{{Name: "id"}})

	for _, index := range []int{0, 2, -1} {
		_, err := defs.ColumnLabel(index)
		var rangeErr *domain.ErrColumnIndexOutOfRange
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, index, rangeErr.Index)
		assert.Equal(t, 1, rangeErr.ColumnCount)
	}
}

func TestColumnDefinitions_Columns(t *testing.T) {
	fields := []FieldMeta{orderCipherField()}
	defs := NewColumnDefinitions(fields)
	fields[0].Name = "changed"

	assert.Equal(t, []domain.ColumnMeta{{
		Label:         "id_card",
		Name:          "id_card_cipher",
		Table:         "t_order_0",
		Type:          "VARCHAR",
		CaseSensitive: true,
	}}, defs.Columns())
}

func TestGetTypeName(t *testing.T) {
	assert.Equal(t, "BIGINT", GetTypeName(MYSQL_TYPE_LONGLONG))
	assert.Equal(t, "JSON", GetTypeName(MYSQL_TYPE_JSON))
	assert.Equal(t, "UNKNOWN", GetTypeName(0x20))
}
