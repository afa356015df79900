// Package lsp implements a minimal Language Server Protocol client used to
// exercise a language server over a socket: Content-Length framing,
// request/response correlation, notification waiting, and strict tracking
// of the server process's captured stdout and stderr.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// Handler receives messages observed while the client was waiting for
// something else: server notifications and responses to other requests.
type Handler func(msg *Message)

// RequestOptions controls the behavior of a single request.
type RequestOptions struct {
	// FailOnStderrOutput makes the request fail with UnexpectedOutputError
	// if the server wrote anything to stderr while the request was in
	// flight. Suppressed for initialize, where startup logging is expected.
	FailOnStderrOutput bool
}

// Client drives a language server over a duplex byte stream. It owns the
// connection for its lifetime and must be used from a single goroutine:
// every operation blocks until its completion condition is met, and no two
// operations may be in flight at once.
type Client struct {
	conn   io.ReadWriteCloser
	reader *bufio.Reader
	tap    *OutputTap
	logger *zap.Logger

	requestCounter  int64
	documentCounter int64

	onNotification  Handler
	onStrayResponse Handler
}

// NewClient creates a client over conn. The tap must wrap the capture
// sinks of the server process the connection belongs to.
func NewClient(conn io.ReadWriteCloser, tap *OutputTap, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		conn:   conn,
		reader: bufio.NewReader(conn),
		tap:    tap,
		logger: logger,
	}
	c.onNotification = func(msg *Message) {
		c.logger.Info("received notification",
			zap.String("method", msg.Method),
			zap.Any("params", msg.Params))
	}
	c.onStrayResponse = func(msg *Message) {
		c.logger.Info("received stray response", zap.Int64p("id", msg.ID))
	}
	return c
}

// OnNotification replaces the handler invoked for notifications observed
// while waiting for a response.
func (c *Client) OnNotification(h Handler) { c.onNotification = h }

// OnStrayResponse replaces the handler invoked for responses whose ID does
// not match the request currently in flight.
func (c *Client) OnStrayResponse(h Handler) { c.onStrayResponse = h }

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// readMessage blocks until a complete frame has been received and parsed.
func (c *Client) readMessage() (*Message, error) {
	headers, err := ReadHeader(c.reader)
	if err != nil {
		return nil, err
	}
	length, err := ContentLength(headers)
	if err != nil {
		return nil, err
	}
	body, err := ReadBody(c.reader, length)
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, &ProtocolError{Err: err}
	}
	return &msg, nil
}

// send encodes and transmits a single message frame.
func (c *Client) send(msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	if _, err := c.conn.Write(EncodeFrame(body)); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// SendRequest issues a request and blocks until the server's response with
// the matching ID arrives. Notifications and responses to other requests
// received in the meantime are dispatched to the registered handlers. The
// returned duration is the wall-clock time between transmission and
// correlation.
func (c *Client) SendRequest(ctx context.Context, method string, params any, opts RequestOptions) (*Message, time.Duration, error) {
	if _, _, err := c.tap.Poll(); err != nil {
		return nil, 0, err
	}

	c.requestCounter++
	requestID := c.requestCounter

	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, 0, fmt.Errorf("encoding params: %w", err)
	}
	request := &Message{
		JSONRPC: "2.0",
		ID:      &requestID,
		Method:  method,
		Params:  rawParams,
	}

	c.logger.Debug("sending request",
		zap.Int64("id", requestID),
		zap.String("method", method))
	if err := c.send(request); err != nil {
		return nil, 0, err
	}

	start := time.Now()
	response, err := c.listenForResponse(ctx, requestID)
	if err != nil {
		return nil, 0, err
	}
	duration := time.Since(start)

	_, stderr, err := c.tap.Poll()
	if err != nil {
		return nil, 0, err
	}

	c.logger.Debug("received response",
		zap.Int64("id", requestID),
		zap.Duration("duration", duration))

	if opts.FailOnStderrOutput && len(stderr) > 0 {
		return nil, 0, &UnexpectedOutputError{Stderr: stderr}
	}
	return response, duration, nil
}

// listenForResponse reads messages until one correlates with requestID.
func (c *Client) listenForResponse(ctx context.Context, requestID int64) (*Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msg, err := c.readMessage()
		if err != nil {
			return nil, err
		}
		switch {
		case msg.Method != "":
			c.onNotification(msg)
		case msg.ID == nil || *msg.ID != requestID:
			c.onStrayResponse(msg)
		default:
			return msg, nil
		}
	}
}

// SendNotification transmits a one-way notification. Stale subprocess
// output is flushed first so it cannot be misattributed to this call.
func (c *Client) SendNotification(ctx context.Context, method string, params any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := c.tap.Poll(); err != nil {
		return err
	}

	rawParams, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding params: %w", err)
	}

	c.logger.Debug("sending notification", zap.String("method", method))
	return c.send(&Message{
		JSONRPC: "2.0",
		Method:  method,
		Params:  rawParams,
	})
}

// ListenForNotification blocks until a notification arrives whose params
// carry a "uri" field equal to uri. With an empty uri, the first
// notification of any kind is returned. Non-matching messages are
// dispatched to the registered handlers and never returned.
func (c *Client) ListenForNotification(ctx context.Context, uri string) (*Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msg, err := c.readMessage()
		if err != nil {
			return nil, err
		}
		if msg.IsNotification() {
			if uri == "" {
				return msg, nil
			}
			if value, ok := msg.ParamsField("uri"); ok {
				var got string
				if err := json.Unmarshal(value, &got); err == nil && got == uri {
					return msg, nil
				}
			}
			c.onNotification(msg)
			continue
		}
		c.onStrayResponse(msg)
	}
}
