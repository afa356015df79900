package lsp

import (
	"encoding/json"

	"go.lsp.dev/jsonrpc2"
)

// Message is a decoded JSON-RPC frame. Exactly one of the request,
// notification, or response shapes holds: requests carry an ID and a
// method, notifications a method only, responses an ID with a result or
// error.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonrpc2.Error `json:"error,omitempty"`
}

// IsNotification reports whether the message is a one-way notification.
func (m *Message) IsNotification() bool {
	return m.ID == nil && m.Method != ""
}

// IsResponse reports whether the message answers an earlier request.
func (m *Message) IsResponse() bool {
	return m.ID != nil && m.Method == ""
}

// IsRequest reports whether the message is a server-to-client request.
func (m *Message) IsRequest() bool {
	return m.ID != nil && m.Method != ""
}

// ParamsField returns the value of a single top-level key in the message
// params, with ok reporting whether the key is present at all.
func (m *Message) ParamsField(key string) (json.RawMessage, bool) {
	if len(m.Params) == 0 {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(m.Params, &fields); err != nil {
		return nil, false
	}
	value, ok := fields[key]
	return value, ok
}
