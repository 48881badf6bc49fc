package model

import (
	"fmt"

	"github.com/aretw0/hearth/pkg/codec"
	"github.com/aretw0/hearth/pkg/core"
)

// Decode reads an entity or a patch from JSON text, parsing every date
// field through the codec. Unknown fields are rejected.
func Decode[T any](schema codec.Schema, data []byte) (T, error) {
	var zero T
	record, err := codec.ParseRecord(data)
	if err != nil {
		return zero, &core.ParseError{Source: schema.Kind, Err: err}
	}
	if record == nil {
		return zero, &core.ParseError{Source: schema.Kind, Err: fmt.Errorf("expected an object")}
	}
	return codec.Unmarshal[T](schema, record, true)
}
