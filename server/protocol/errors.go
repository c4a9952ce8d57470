package protocol

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrNoResultSet is returned when the server answered with OK instead of a
// result set.
var ErrNoResultSet = errors.New("no result set")

// ServerError 服务端返回的 ERR 包
type ServerError struct {
	Code     uint16
	SQLState string
	Message  string
}

func (e *ServerError) Error() string {
	if e.SQLState == "" {
		return fmt.Sprintf("ERROR %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("ERROR %d (%s): %s", e.Code, e.SQLState, e.Message)
}

func parseErrPacket(payload []byte) error {
	reader := bytes.NewReader(payload[1:])
	code, err := ReadNumber[uint16](reader, 2)
	if err != nil {
		return fmt.Errorf("read error packet: %w", err)
	}

	serverErr := &ServerError{Code: code}
	rest := payload[3:]
	if len(rest) >= 6 && rest[0] == '#' {
		serverErr.SQLState = string(rest[1:6])
		rest = rest[6:]
	}
	serverErr.Message = string(rest)
	return serverErr
}
