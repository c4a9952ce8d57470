package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// lenencNull is the length-encoded prefix of a NULL value.
const lenencNull = 0xfb

type number interface {
	uint8 | uint16 | uint32 | uint64 | uint | int | int8 | int16 | int32 | int64
}

func ReadStringByLenencFromReader[LengthType uint8 | uint16 | uint32 | uint64](r io.Reader) (string, error) {
	length, err := ReadLenencNumber[LengthType](r)
	if err != nil {
		return "", err
	}

	textBytes := make([]byte, length)
	if _, err = io.ReadFull(r, textBytes); err != nil {
		return "", err
	}
	return string(textBytes), nil
}

func ReadNumber[T number](r io.Reader, readLength int) (T, error) {
	buf := make([]byte, 8)
	if _, err := io.ReadFull(r, buf[:readLength]); err != nil {
		return 0, err
	}
	return T(binary.LittleEndian.Uint64(buf)), nil
}

func ReadLenencNumber[T number](r io.Reader) (T, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	firstByte := b[0]

	switch {
	case firstByte < lenencNull:
		return T(firstByte), nil

	case firstByte == 0xfc:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return T(binary.LittleEndian.Uint16(buf[:])), nil

	case firstByte == 0xfd:
		var buf [3]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return T(uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16), nil

	case firstByte == 0xfe:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return T(binary.LittleEndian.Uint64(buf[:])), nil

	case firstByte == lenencNull:
		return 0, errors.New("invalid lenenc number: 0xfb is reserved for NULL")

	default:
		return 0, fmt.Errorf("invalid lenenc number prefix: 0x%x", firstByte)
	}
}

func WriteStringByLenenc(buf *bytes.Buffer, s string) {
	WriteLenencNumber(buf, uint64(len(s)))
	buf.WriteString(s)
}

func WriteNumber[T number](buf *bytes.Buffer, value T, writeLength int) error {
	switch writeLength {
	case 1:
		buf.WriteByte(byte(value))
	case 2:
		binary.Write(buf, binary.LittleEndian, uint16(value))
	case 3:
		buf.Write([]byte{byte(value), byte(uint64(value) >> 8), byte(uint64(value) >> 16)})
	case 4:
		binary.Write(buf, binary.LittleEndian, uint32(value))
	case 8:
		binary.Write(buf, binary.LittleEndian, uint64(value))
	default:
		return fmt.Errorf("unsupported write length: %d", writeLength)
	}
	return nil
}

func WriteLenencNumber(buf *bytes.Buffer, val uint64) {
	switch {
	case val < lenencNull:
		buf.WriteByte(byte(val))
	case val < 0x10000:
		buf.WriteByte(0xfc)
		binary.Write(buf, binary.LittleEndian, uint16(val))
	case val < 0x1000000:
		buf.WriteByte(0xfd)
		buf.Write([]byte{byte(val), byte(val >> 8), byte(val >> 16)})
	default:
		buf.WriteByte(0xfe)
		binary.Write(buf, binary.LittleEndian, val)
	}
}
