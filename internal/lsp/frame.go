package lsp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const headerContentLength = "Content-Length"

var headerTerminator = []byte("\r\n\r\n")

// EncodeFrame wraps a message body in the wire framing used by the
// language server: a Content-Length header, a blank line, then the body.
func EncodeFrame(body []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s: %d\r\n\r\n", headerContentLength, len(body))
	buf.Write(body)
	return buf.Bytes()
}

// ReadHeader consumes bytes from r up to and including the \r\n\r\n
// terminator and returns the header fields. It reads one byte at a time so
// that no body bytes are consumed from the underlying reader.
func ReadHeader(r *bufio.Reader) (map[string]string, error) {
	var raw []byte
	for !bytes.HasSuffix(raw, headerTerminator) {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrConnectionClosed
			}
			return nil, err
		}
		raw = append(raw, b)
	}

	headers := make(map[string]string)
	trimmed := strings.TrimSuffix(string(raw), string(headerTerminator))
	for _, line := range strings.Split(trimmed, "\r\n") {
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, &FramingError{Reason: "header line has no separator", Header: line}
		}
		headers[key] = value
	}
	return headers, nil
}

// ContentLength extracts the body length from a parsed header.
func ContentLength(headers map[string]string) (int, error) {
	value, ok := headers[headerContentLength]
	if !ok {
		return 0, &FramingError{Reason: "missing Content-Length"}
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, &FramingError{Reason: "non-numeric Content-Length", Header: value}
	}
	return n, nil
}

// ReadBody reads exactly length bytes from r, blocking across as many
// underlying reads as necessary.
func ReadBody(r io.Reader, length int) ([]byte, error) {
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrConnectionClosed
		}
		return nil, err
	}
	return body, nil
}
