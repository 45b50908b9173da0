package api

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Text is a message body: either a single string or a list of strings on the wire.
type Text []string

func (t *Text) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*t = nil
	case string:
		*t = Text{v}
	case []any:
		ret := make(Text, 0, len(v))
		for _, e := range v {
			// non-string elements count as empty and are dropped when rendering
			s, _ := e.(string)
			ret = append(ret, s)
		}
		*t = ret
	default:
		*t = nil
	}
	return nil
}

// MarshalJSON writes single-element texts as a plain string.
func (t Text) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// Empty reports whether t has no non-empty element.
func (t Text) Empty() bool {
	for _, s := range t {
		if s != "" {
			return false
		}
	}
	return true
}

type Message struct {
	Text Text `json:"text,omitempty"`
}

// ChatPayload is a request or response body exchanged with the agent endpoint.
type ChatPayload struct {
	Input   *Message       `json:"input,omitempty"`
	Output  *Message       `json:"output,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (p *ChatPayload) InputText() Text {
	if p == nil || p.Input == nil {
		return nil
	}
	return p.Input.Text
}

func (p *ChatPayload) OutputText() Text {
	if p == nil || p.Output == nil {
		return nil
	}
	return p.Output.Text
}

// UnmarshalJSON accepts any JSON value. Members of the wrong type are treated
// as absent, so only the text of well-formed messages survives.
func (p *ChatPayload) UnmarshalJSON(b []byte) error {
	*p = ChatPayload{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		// arrays, strings and numbers carry no message
		return nil
	}
	p.Input = decodeMessage(fields["input"])
	p.Output = decodeMessage(fields["output"])
	if raw, ok := fields["context"]; ok {
		var ctx map[string]any
		if json.Unmarshal(raw, &ctx) == nil {
			p.Context = ctx
		}
	}
	return nil
}

func decodeMessage(raw json.RawMessage) *Message {
	if len(raw) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}
	m := &Message{}
	if text, ok := fields["text"]; ok {
		if err := m.Text.UnmarshalJSON(text); err != nil {
			m.Text = nil
		}
	}
	return m
}

// ParsePayload decodes the wire form of a payload. Only bytes that are not
// JSON at all are an error.
func ParsePayload(raw string) (*ChatPayload, error) {
	b := []byte(raw)
	if !json.Valid(b) {
		return nil, errors.New("parse chat payload: invalid JSON")
	}
	p := &ChatPayload{}
	if err := json.Unmarshal(b, p); err != nil {
		return nil, errors.Wrap(err, "parse chat payload")
	}
	return p, nil
}
