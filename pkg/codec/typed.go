package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/hearth/pkg/core"
)

// Unmarshal decodes the date fields of record in place, then converts it
// into T. In strict mode fields T does not declare are rejected with
// core.ErrUnknownField.
func Unmarshal[T any](schema Schema, record map[string]any, strict bool) (T, error) {
	var v T
	if err := Decode(schema, record); err != nil {
		return v, err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return v, fmt.Errorf("failed to marshal %s record: %w", schema.Kind, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&v); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			return v, fmt.Errorf("%s: %w: %s", schema.Kind, core.ErrUnknownField, strings.TrimPrefix(err.Error(), "json: unknown field "))
		}
		return v, &DecodeError{Kind: schema.Kind, Err: err}
	}
	return v, nil
}

// Marshal converts v into a loose record with every date field rendered
// as ISO-8601 text and absent optional dates omitted.
func Marshal[T any](schema Schema, v T) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", schema.Kind, err)
	}
	record, err := ParseRecord(data)
	if err != nil {
		return nil, err
	}
	if err := Encode(schema, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ParseRecord decodes a single JSON object, keeping numbers as json.Number
// so they re-encode byte for byte.
func ParseRecord(data []byte) (map[string]any, error) {
	var record map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&record); err != nil {
		return nil, err
	}
	return record, nil
}

// ParseRecords decodes a JSON array into its raw elements.
func ParseRecords(data []byte) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
