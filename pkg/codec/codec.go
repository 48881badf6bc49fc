// Package codec converts date-bearing fields between their wire form
// (ISO-8601 text) and time.Time.
//
// Records are handled as loose maps (the shape JSON decodes into), which
// lets one schema per entity kind drive both directions without reflection
// over the entity structs.
package codec

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// layouts accepted by Parse, most specific first.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ErrEmptyDate is returned by Parse for blank input.
var ErrEmptyDate = errors.New("empty date")

// Parse reads an ISO-8601 date or date-time.
// Values without a zone are interpreted as UTC.
func Parse(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}
	var firstErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// Format renders t as RFC 3339 with nanosecond precision, the same text
// time.Time produces when marshalled to JSON.
func Format(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// Schema lists the date-bearing fields of one entity kind.
type Schema struct {
	Kind   string
	Dates  []string          // JSON field names holding dates
	Nested map[string]Schema // JSON field name -> schema of each element in an array of records
}

// DecodeError reports a date field that could not be parsed.
type DecodeError struct {
	Kind  string
	Field string
	Raw   any
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s record: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("decode %s.%s %v: %v", e.Kind, e.Field, e.Raw, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode replaces every present date field of record with a time.Time.
// Absent and null fields are left untouched.
func Decode(schema Schema, record map[string]any) error {
	for _, field := range schema.Dates {
		raw, ok := record[field]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case time.Time:
		case string:
			t, err := Parse(v)
			if err != nil {
				return &DecodeError{Kind: schema.Kind, Field: field, Raw: raw, Err: err}
			}
			record[field] = t
		default:
			return &DecodeError{Kind: schema.Kind, Field: field, Raw: raw, Err: fmt.Errorf("expected text, got %T", raw)}
		}
	}
	return eachNested(schema, record, Decode)
}

// Encode renders every date field of record as text and drops absent
// optional dates so they are omitted rather than stored as null.
func Encode(schema Schema, record map[string]any) error {
	for _, field := range schema.Dates {
		raw, ok := record[field]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case nil:
			delete(record, field)
		case time.Time:
			record[field] = Format(v)
		case *time.Time:
			if v == nil {
				delete(record, field)
				continue
			}
			record[field] = Format(*v)
		case string:
			// Canonicalize so a decode/encode cycle is byte-stable.
			t, err := Parse(v)
			if err != nil {
				return &DecodeError{Kind: schema.Kind, Field: field, Raw: raw, Err: err}
			}
			record[field] = Format(t)
		default:
			return &DecodeError{Kind: schema.Kind, Field: field, Raw: raw, Err: fmt.Errorf("expected date, got %T", raw)}
		}
	}
	return eachNested(schema, record, Encode)
}

func eachNested(schema Schema, record map[string]any, fn func(Schema, map[string]any) error) error {
	for field, nested := range schema.Nested {
		raw, ok := record[field]
		if !ok || raw == nil {
			continue
		}
		list, ok := raw.([]any)
		if !ok {
			return &DecodeError{Kind: schema.Kind, Field: field, Raw: raw, Err: fmt.Errorf("expected list, got %T", raw)}
		}
		for i, elem := range list {
			child, ok := elem.(map[string]any)
			if !ok {
				return &DecodeError{Kind: schema.Kind, Field: fmt.Sprintf("%s[%d]", field, i), Raw: elem, Err: fmt.Errorf("expected record, got %T", elem)}
			}
			if err := fn(nested, child); err != nil {
				var de *DecodeError
				if errors.As(err, &de) {
					de.Field = fmt.Sprintf("%s[%d].%s", field, i, de.Field)
					de.Kind = schema.Kind
				}
				return err
			}
		}
	}
	return nil
}
