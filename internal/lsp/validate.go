package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// ValidateOptions controls a single document validation.
type ValidateOptions struct {
	// FailOnStderrOutput applies the strict stderr contract to the
	// didOpen/diagnostics exchange.
	FailOnStderrOutput bool
}

// ValidationResult reports the outcome of validating one document.
type ValidationResult struct {
	// URI is the synthetic identifier the document was opened under.
	URI string
	// Matches is the number of diagnostics the server reported.
	Matches int
	// Duration is the wall-clock time between sending didOpen and
	// receiving the diagnostics notification.
	Duration time.Duration
}

// ValidateDocument opens text as a fresh LaTeX document, waits for the
// server's diagnostics notification for that document, and reports the
// match count and elapsed time.
func (c *Client) ValidateDocument(ctx context.Context, text string, opts ValidateOptions) (*ValidationResult, error) {
	if _, _, err := c.tap.Poll(); err != nil {
		return nil, err
	}

	c.documentCounter++
	docURI := fmt.Sprintf("foo://%d", c.documentCounter)

	params := protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri.URI(docURI),
			LanguageID: protocol.LatexLanguage,
			Version:    1,
			Text:       text,
		},
	}
	if err := c.SendNotification(ctx, protocol.MethodTextDocumentDidOpen, params); err != nil {
		return nil, err
	}

	start := time.Now()
	notification, err := c.ListenForNotification(ctx, docURI)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	_, stderr, err := c.tap.Poll()
	if err != nil {
		return nil, err
	}
	if opts.FailOnStderrOutput && len(stderr) > 0 {
		return nil, &UnexpectedOutputError{Stderr: stderr}
	}

	var diagnostics protocol.PublishDiagnosticsParams
	if err := json.Unmarshal(notification.Params, &diagnostics); err != nil {
		return nil, &ProtocolError{Err: err}
	}

	return &ValidationResult{
		URI:      docURI,
		Matches:  len(diagnostics.Diagnostics),
		Duration: duration,
	}, nil
}
