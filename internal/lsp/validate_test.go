package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

// scriptDiagnosticsServer consumes didOpen notifications and answers each
// with a publishDiagnostics notification carrying count diagnostics.
func scriptDiagnosticsServer(tc *testClient, count int, didOpens chan<- protocol.DidOpenTextDocumentParams) {
	go func() {
		reader := bufio.NewReader(tc.server)
		for {
			msg, err := tc.serverRead(reader)
			if err != nil {
				return
			}
			if msg.Method != protocol.MethodTextDocumentDidOpen {
				continue
			}

			var params protocol.DidOpenTextDocumentParams
			if err := json.Unmarshal(msg.Params, &params); err != nil {
				return
			}
			if didOpens != nil {
				didOpens <- params
			}

			diagnostics := make([]protocol.Diagnostic, count)
			for i := range diagnostics {
				diagnostics[i] = protocol.Diagnostic{Message: "possible spelling mistake"}
			}
			reply, err := json.Marshal(map[string]any{
				"jsonrpc": "2.0",
				"method":  protocol.MethodTextDocumentPublishDiagnostics,
				"params": protocol.PublishDiagnosticsParams{
					URI:         params.TextDocument.URI,
					Diagnostics: diagnostics,
				},
			})
			if err != nil {
				return
			}
			if _, err := tc.server.Write(EncodeFrame(reply)); err != nil {
				return
			}
		}
	}()
}

func TestValidateDocument(t *testing.T) {
	tc := newTestClient(t)
	didOpens := make(chan protocol.DidOpenTextDocumentParams, 1)
	scriptDiagnosticsServer(tc, 3, didOpens)

	result, err := tc.client.ValidateDocument(context.Background(), "Hello world.",
		ValidateOptions{FailOnStderrOutput: true})
	require.NoError(t, err)

	assert.Equal(t, "foo://1", result.URI)
	assert.Equal(t, 3, result.Matches)
	assert.GreaterOrEqual(t, result.Duration, time.Duration(0))

	opened := <-didOpens
	assert.Equal(t, "foo://1", string(opened.TextDocument.URI))
	assert.Equal(t, protocol.LatexLanguage, opened.TextDocument.LanguageID)
	assert.Equal(t, int32(1), opened.TextDocument.Version)
	assert.Equal(t, "Hello world.", opened.TextDocument.Text)
}

func TestValidateDocumentURIsAreUnique(t *testing.T) {
	tc := newTestClient(t)
	scriptDiagnosticsServer(tc, 0, nil)

	var uris []string
	for i := 0; i < 3; i++ {
		result, err := tc.client.ValidateDocument(context.Background(), "Some text.",
			ValidateOptions{})
		require.NoError(t, err)
		uris = append(uris, result.URI)
	}

	assert.Equal(t, []string{"foo://1", "foo://2", "foo://3"}, uris)
}

func TestValidateDocumentIgnoresOtherDocuments(t *testing.T) {
	tc := newTestClient(t)

	go func() {
		reader := bufio.NewReader(tc.server)
		if _, err := tc.serverRead(reader); err != nil { // the didOpen for foo://1
			return
		}
		// Diagnostics for an unrelated document must be skipped.
		tc.serverWrite(`{"jsonrpc":"2.0","method":"textDocument/publishDiagnostics","params":{"uri":"foo://99","diagnostics":[{},{}]}}`)
		tc.serverWrite(`{"jsonrpc":"2.0","method":"textDocument/publishDiagnostics","params":{"uri":"foo://1","diagnostics":[{}]}}`)
	}()

	result, err := tc.client.ValidateDocument(context.Background(), "Hello world.",
		ValidateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Matches)
}

func TestValidateDocumentStderrStrict(t *testing.T) {
	tc := newTestClient(t)

	go func() {
		reader := bufio.NewReader(tc.server)
		if _, err := tc.serverRead(reader); err != nil {
			return
		}
		if _, err := tc.stderr.WriteString("OutOfMemoryError\n"); err != nil {
			return
		}
		tc.serverWrite(`{"jsonrpc":"2.0","method":"textDocument/publishDiagnostics","params":{"uri":"foo://1","diagnostics":[]}}`)
	}()

	_, err := tc.client.ValidateDocument(context.Background(), "Hello world.",
		ValidateOptions{FailOnStderrOutput: true})

	var outputErr *UnexpectedOutputError
	require.ErrorAs(t, err, &outputErr)
}
