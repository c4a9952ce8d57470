package protocol

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// maxPayloadLength 单个包的最大载荷长度
const maxPayloadLength = 0xffffff

type Packet struct {
	PayloadLength uint32 `mysql:"int<3>"`
	SequenceID    uint8  `mysql:"int<1>"`
	Payload       []byte // 保存载荷数据
}

func (p *Packet) Unmarshal(r io.Reader) (err error) {
	buf := make([]byte, 4)
	if _, err = io.ReadFull(r, buf); err != nil {
		return err
	}
	// MySQL协议使用小端序
	p.PayloadLength = uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16
	p.SequenceID = buf[3]

	p.Payload = nil
	if p.PayloadLength > 0 {
		p.Payload = make([]byte, p.PayloadLength)
		if _, err = io.ReadFull(r, p.Payload); err != nil {
			return err
		}
	}
	return nil
}

// marshalPacket 为载荷加上包头
func marshalPacket(sequenceID uint8, payload []byte) ([]byte, error) {
	if len(payload) >= maxPayloadLength {
		return nil, fmt.Errorf("payload too large: %d bytes", len(payload))
	}
	buf := bytes.NewBuffer(make([]byte, 0, len(payload)+4))
	WriteNumber(buf, uint32(len(payload)), 3)
	buf.WriteByte(sequenceID)
	buf.Write(payload)
	return buf.Bytes(), nil
}

// https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_com_query_response_text_resultset_column_definition.html
type FieldMeta struct {
	Catalog                   string  `mysql:"string<lenenc>"`
	Schema                    string  `mysql:"string<lenenc>"`
	Table                     string  `mysql:"string<lenenc>"`
	OrgTable                  string  `mysql:"string<lenenc>"`
	Name                      string  `mysql:"string<lenenc>"`
	OrgName                   string  `mysql:"string<lenenc>"`
	ExtendedMetadata          string  `mysql:"string<lenenc>,optional"` // MariaDB扩展元数据（如'point', 'json'）
	LengthOfFixedLengthFields uint64  `mysql:"int<lenenc>"`
	CharacterSet              uint16  `mysql:"int<2>"`
	ColumnLength              uint32  `mysql:"int<4>"`
	Type                      uint8   `mysql:"int<1>"`
	Flags                     uint16  `mysql:"int<2>"`
	Decimals                  uint8   `mysql:"int<1>"`
	DefaultValue              *string `mysql:"string<lenenc>,omitempty"` // 仅 COM_FIELD_LIST 响应携带
}

// FieldMetaPacket 字段元数据包
//
// capabilities 为 MariaDB 扩展能力，包含 MARIADB_CLIENT_EXTENDED_METADATA 时
// 列定义中带有扩展元数据块。
type FieldMetaPacket struct {
	Packet
	FieldMeta
}

func (p *FieldMetaPacket) Unmarshal(r io.Reader, capabilities uint32) error {
	if err := p.Packet.Unmarshal(r); err != nil {
		return err
	}
	return p.FieldMeta.decode(p.Payload, capabilities)
}

func (m *FieldMeta) decode(payload []byte, capabilities uint32) error {
	reader := bufio.NewReader(bytes.NewReader(payload))

	var err error
	strs := []*string{&m.Catalog, &m.Schema, &m.Table, &m.OrgTable, &m.Name, &m.OrgName}
	for _, s := range strs {
		if *s, err = ReadStringByLenencFromReader[uint64](reader); err != nil {
			return fmt.Errorf("read column definition: %w", err)
		}
	}

	if capabilities&MARIADB_CLIENT_EXTENDED_METADATA != 0 {
		block, err := ReadStringByLenencFromReader[uint64](reader)
		if err != nil {
			return fmt.Errorf("read extended metadata: %w", err)
		}
		m.ExtendedMetadata = decodeExtendedMetadata(block)
	}

	if m.LengthOfFixedLengthFields, err = ReadLenencNumber[uint64](reader); err != nil {
		return fmt.Errorf("read column definition: %w", err)
	}
	if m.CharacterSet, err = ReadNumber[uint16](reader, 2); err != nil {
		return fmt.Errorf("read character set: %w", err)
	}
	if m.ColumnLength, err = ReadNumber[uint32](reader, 4); err != nil {
		return fmt.Errorf("read column length: %w", err)
	}
	if m.Type, err = ReadNumber[uint8](reader, 1); err != nil {
		return fmt.Errorf("read column type: %w", err)
	}
	if m.Flags, err = ReadNumber[uint16](reader, 2); err != nil {
		return fmt.Errorf("read column flags: %w", err)
	}
	if m.Decimals, err = ReadNumber[uint8](reader, 1); err != nil {
		return fmt.Errorf("read decimals: %w", err)
	}

	// 保留字段（2字节）
	if _, err = reader.Discard(2); err != nil {
		return fmt.Errorf("read column definition: %w", err)
	}

	m.DefaultValue = nil
	if _, err := reader.Peek(1); err == nil {
		defaultValue, err := ReadStringByLenencFromReader[uint64](reader)
		if err != nil {
			return fmt.Errorf("read default value: %w", err)
		}
		m.DefaultValue = &defaultValue
	}
	return nil
}

// decodeExtendedMetadata 返回扩展元数据中的类型名（0x00），没有时返回格式（0x01）
func decodeExtendedMetadata(block string) string {
	reader := bytes.NewReader([]byte(block))
	var format string
	for reader.Len() > 0 {
		kind, err := reader.ReadByte()
		if err != nil {
			break
		}
		value, err := ReadStringByLenencFromReader[uint64](reader)
		if err != nil {
			break
		}
		switch kind {
		case 0x00:
			return value
		case 0x01:
			format = value
		}
	}
	return format
}

func (p *FieldMetaPacket) Marshal(capabilities uint32) ([]byte, error) {
	buf := new(bytes.Buffer)

	WriteStringByLenenc(buf, p.Catalog)
	WriteStringByLenenc(buf, p.Schema)
	WriteStringByLenenc(buf, p.Table)
	WriteStringByLenenc(buf, p.OrgTable)
	WriteStringByLenenc(buf, p.Name)
	WriteStringByLenenc(buf, p.OrgName)

	if capabilities&MARIADB_CLIENT_EXTENDED_METADATA != 0 {
		block := new(bytes.Buffer)
		if p.ExtendedMetadata != "" {
			block.WriteByte(0x00)
			WriteStringByLenenc(block, p.ExtendedMetadata)
		}
		WriteStringByLenenc(buf, block.String())
	}

	p.LengthOfFixedLengthFields = 0x0c
	WriteLenencNumber(buf, p.LengthOfFixedLengthFields)
	WriteNumber(buf, p.CharacterSet, 2)
	WriteNumber(buf, p.ColumnLength, 4)
	WriteNumber(buf, p.Type, 1)
	WriteNumber(buf, p.Flags, 2)
	WriteNumber(buf, p.Decimals, 1)
	buf.Write([]byte{0x00, 0x00})

	if p.DefaultValue != nil {
		WriteStringByLenenc(buf, *p.DefaultValue)
	}

	return marshalPacket(p.SequenceID, buf.Bytes())
}

// ColumnCountPacket 结果集列数包
type ColumnCountPacket struct {
	Packet
	ColumnCount uint64 `mysql:"int<lenenc>"`
}

func (p *ColumnCountPacket) Unmarshal(r io.Reader) error {
	if err := p.Packet.Unmarshal(r); err != nil {
		return err
	}
	if len(p.Payload) == 0 {
		return fmt.Errorf("empty column count packet")
	}
	switch p.Payload[0] {
	case ERR_PACKET:
		return parseErrPacket(p.Payload)
	case OK_PACKET:
		return ErrNoResultSet
	}
	count, err := ReadLenencNumber[uint64](bytes.NewReader(p.Payload))
	if err != nil {
		return err
	}
	p.ColumnCount = count
	return nil
}

func (p *ColumnCountPacket) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	WriteLenencNumber(buf, p.ColumnCount)
	return marshalPacket(p.SequenceID, buf.Bytes())
}

// IsEofPacket 判断载荷是否为 EOF 包
func IsEofPacket(payload []byte) bool {
	return len(payload) > 0 && len(payload) < 9 && payload[0] == EOF_PACKET
}

// ReadResultSetColumns 读取文本结果集头部
//
// It reads the column count packet, one column definition per column and,
// unless CLIENT_DEPRECATE_EOF was negotiated, the trailing EOF packet. Row
// packets are left unread on r.
func ReadResultSetColumns(r io.Reader, clientCapabilities, mariadbCapabilities uint32) ([]FieldMeta, error) {
	countPacket := &ColumnCountPacket{}
	if err := countPacket.Unmarshal(r); err != nil {
		return nil, err
	}

	fields := make([]FieldMeta, 0, countPacket.ColumnCount)
	for i := uint64(0); i < countPacket.ColumnCount; i++ {
		fieldPacket := &FieldMetaPacket{}
		if err := fieldPacket.Unmarshal(r, mariadbCapabilities); err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		fields = append(fields, fieldPacket.FieldMeta)
	}

	if clientCapabilities&CLIENT_DEPRECATE_EOF == 0 {
		eof := &Packet{}
		if err := eof.Unmarshal(r); err != nil {
			return nil, err
		}
		if !IsEofPacket(eof.Payload) {
			return nil, fmt.Errorf("expected EOF packet after column definitions")
		}
	}
	return fields, nil
}
