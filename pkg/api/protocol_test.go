package api

import (
	"bytes"
	"testing"

	"github.com/kasuganosora/shardmeta/pkg/rule"
	"github.com/kasuganosora/shardmeta/pkg/security"
	"github.com/kasuganosora/shardmeta/server/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// writeColumnHeader 写出列数包和列定义包，不带 EOF 包
func writeColumnHeader(t *testing.T, fields []protocol.FieldMeta) *bytes.Buffer {
	t.Helper()
	stream := &bytes.Buffer{}

	seq := uint8(1)
	count := &protocol.ColumnCountPacket{ColumnCount: uint64(len(fields))}
	count.SequenceID = seq
	data, err := count.Marshal()
	require.NoError(t, err)
	stream.Write(data)

	for _, field := range fields {
		seq++
		packet := &protocol.FieldMetaPacket{FieldMeta: field}
		packet.SequenceID = seq
		data, err := packet.Marshal(0)
		require.NoError(t, err)
		stream.Write(data)
	}
	return stream
}

// rawPacket 为载荷加上包头
func rawPacket(payload []byte) []byte {
	n := len(payload)
	return append([]byte{byte(n), byte(n >> 8), byte(n >> 16), 1}, payload...)
}

func mustEncrypt(t *testing.T, plain string) interface{} {
	t.Helper()
	aes, err := security.NewEncryptor(security.AESEncryptorType, security.Properties{security.AESKeyProperty: testAESKey})
	require.NoError(t, err)
	cipher, err := aes.Encrypt(plain)
	require.NoError(t, err)
	return cipher
}

func orderFields() []protocol.FieldMeta {
	return []protocol.FieldMeta{
		{Table: "o", OrgTable: "t_order_0", Name: "order_id", OrgName: "order_id",
			Type: protocol.MYSQL_TYPE_LONGLONG, CharacterSet: protocol.CHARSET_BINARY, Flags: protocol.BINARY_COLLATION_FLAG},
		{Table: "o", OrgTable: "t_order_0", Name: "card", OrgName: "id_card_cipher",
			Type: protocol.MYSQL_TYPE_VAR_STRING, CharacterSet: protocol.CHARSET_UTF8MB4_BIN},
		{Table: "u", OrgTable: "t_user", Name: "name", OrgName: "name",
			Type: protocol.MYSQL_TYPE_VAR_STRING, CharacterSet: protocol.CHARSET_UTF8MB4_GENERAL_CI},
		{Name: "total", Type: protocol.MYSQL_TYPE_NEWDECIMAL, CharacterSet: protocol.CHARSET_BINARY},
	}
}

func TestReadProtocolResult(t *testing.T) {
	cfg := testConfig()
	rules, err := rule.Build(&cfg.Rules)
	require.NoError(t, err)

	stream := writeColumnHeader(t, orderFields())
	stream.WriteString("rows")

	result, err := ReadProtocolResult(stream, ProtocolOptions{
		ClientCapabilities: protocol.CLIENT_PROTOCOL_41 | protocol.CLIENT_DEPRECATE_EOF,
		Rules:              rules,
	})
	require.NoError(t, err)
	// 行数据留在流上
	assert.Equal(t, "rows", stream.String())

	descriptions, err := result.Describe()
	require.NoError(t, err)
	require.Len(t, descriptions, 4)

	assert.Equal(t, ColumnDescription{
		Index: 1, Label: "order_id", Column: "order_id", Table: "t_order_0",
		LogicTable: "t_order", LogicColumn: "order_id",
	}, descriptions[0])
	assert.Equal(t, ColumnDescription{
		Index: 2, Label: "card", Column: "id_card_cipher", Table: "t_order_0",
		LogicTable: "t_order", LogicColumn: "id_card", CaseSensitive: true, Encryptor: "AES",
	}, descriptions[1])
	assert.Equal(t, ColumnDescription{
		Index: 3, Label: "name", Column: "name", Table: "t_user",
		LogicTable: "t_user", LogicColumn: "name",
	}, descriptions[2])
	assert.Equal(t, ColumnDescription{
		Index: 4, Label: "total", Column: "total", LogicColumn: "total",
	}, descriptions[3])

	encryptor, err := result.Encryptor(2)
	require.NoError(t, err)
	require.NotNil(t, encryptor)
	plain, err := encryptor.Decrypt(mustEncrypt(t, "110101199001011234"))
	require.NoError(t, err)
	assert.Equal(t, "110101199001011234", plain)

	encryptor, err = result.Encryptor(1)
	require.NoError(t, err)
	assert.Nil(t, encryptor)

	index, ok := result.Metadata().ColumnIndex("CARD")
	require.True(t, ok)
	assert.Equal(t, 2, index)
	assert.Equal(t, 4, len(result.ColumnDefinitions().Columns()))

	_, err = result.Encryptor(5)
	assert.True(t, IsErrorCode(err, ErrCodeMetadata))
}

func TestReadProtocolResult_DecodesResultsCharset(t *testing.T) {
	label, err := simplifiedchinese.GBK.NewEncoder().String("身份证")
	require.NoError(t, err)

	fields := orderFields()[:2]
	fields[1].Name = label
	stream := writeColumnHeader(t, fields)

	result, err := ReadProtocolResult(stream, ProtocolOptions{
		ClientCapabilities: protocol.CLIENT_PROTOCOL_41 | protocol.CLIENT_DEPRECATE_EOF,
		ResultsCollation:   protocol.CHARSET_GBK_CHINESE_CI,
	})
	require.NoError(t, err)

	index, ok := result.Metadata().ColumnIndex("身份证")
	require.True(t, ok)
	assert.Equal(t, 2, index)

	// 没有规则时逻辑名等于物理名
	descriptions, err := result.Describe()
	require.NoError(t, err)
	assert.Equal(t, "t_order_0", descriptions[1].LogicTable)
	assert.Equal(t, "id_card_cipher", descriptions[1].LogicColumn)
	assert.Empty(t, descriptions[1].Encryptor)
}

func TestReadProtocolResult_Errors(t *testing.T) {
	opts := ProtocolOptions{ClientCapabilities: protocol.CLIENT_PROTOCOL_41}

	t.Run("server error", func(t *testing.T) {
		payload := append([]byte{protocol.ERR_PACKET, 0x7a, 0x04, '#', '4', '2', 'S', '0', '2'}, "Table 't_order_9' doesn't exist"...)
		_, err := ReadProtocolResult(bytes.NewReader(rawPacket(payload)), opts)
		assert.True(t, IsErrorCode(err, ErrCodeQuery))
	})

	t.Run("no result set", func(t *testing.T) {
		payload := []byte{protocol.OK_PACKET, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00}
		_, err := ReadProtocolResult(bytes.NewReader(rawPacket(payload)), opts)
		assert.True(t, IsErrorCode(err, ErrCodeQuery))
	})

	t.Run("missing EOF", func(t *testing.T) {
		stream := writeColumnHeader(t, orderFields())
		_, err := ReadProtocolResult(stream, opts)
		assert.True(t, IsErrorCode(err, ErrCodeMetadata))
	})
}
