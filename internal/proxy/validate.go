package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DecodeObject parses a required JSON object body.
func DecodeObject(body []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, EmptyBody()
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, MalformedJSON(err)
	}

	// a literal null decodes into a nil map
	if obj == nil {
		return nil, MalformedJSON(fmt.Errorf("body is not a JSON object"))
	}

	return obj, nil
}

// DecodeAny parses a required body holding any JSON value and returns it
// compacted.
func DecodeAny(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, EmptyBody()
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, MalformedJSON(err)
	}

	return json.RawMessage(buf.Bytes()), nil
}

// StringField is the validation policy for one required string field.
type StringField struct {
	Name string
	// MinLength is counted in characters after trimming; zero only requires non-empty.
	MinLength int
	// Message is returned to the caller when the field fails.
	Message string
}

// Extract returns the trimmed field value or an InvalidField error.
func (f StringField) Extract(obj map[string]json.RawMessage) (string, error) {
	raw, ok := obj[f.Name]
	if !ok {
		return "", f.fail()
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", f.fail()
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", f.fail()
	}

	if f.MinLength > 0 && utf8.RuneCountInString(value) < f.MinLength {
		return "", f.fail()
	}

	return value, nil
}

func (f StringField) fail() error {
	msg := f.Message
	if msg == "" {
		msg = fmt.Sprintf("Field %q is missing or invalid.", f.Name)
	}
	return InvalidField(f.Name, msg)
}
