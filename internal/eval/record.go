package eval

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Record is one decoded input line. Raw keeps the compacted source bytes so
// the record can be re-emitted with its original key order.
type Record struct {
	Raw  json.RawMessage
	Data map[string]any
}

// DecodeRecord parses a single JSONL line. Numbers decode as json.Number so
// integers keep their literal form.
func DecodeRecord(line []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after value", ErrInvalidJSON)
	}

	data, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, jsonKind(value))
	}

	var raw bytes.Buffer
	if err := json.Compact(&raw, line); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	return &Record{Raw: raw.Bytes(), Data: data}, nil
}

func jsonKind(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", value)
	}
}
