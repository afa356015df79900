package lsp

import (
	"errors"
	"fmt"
)

// ErrConnectionClosed is reported when the server closes the connection
// in the middle of a frame.
var ErrConnectionClosed = errors.New("connection closed")

// FramingError indicates a malformed frame header, such as a missing or
// non-numeric Content-Length.
type FramingError struct {
	Reason string
	Header string
}

func (e *FramingError) Error() string {
	if e.Header != "" {
		return fmt.Sprintf("invalid frame header %q: %s", e.Header, e.Reason)
	}
	return fmt.Sprintf("invalid frame header: %s", e.Reason)
}

// ProtocolError indicates a frame body that could not be parsed as a
// JSON-RPC message.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed message body: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// UnexpectedOutputError is returned when the server wrote to its stderr
// during a call that requested strict output checking.
type UnexpectedOutputError struct {
	Stderr string
}

func (e *UnexpectedOutputError) Error() string {
	return fmt.Sprintf("detected %d bytes of output on stderr", len(e.Stderr))
}
