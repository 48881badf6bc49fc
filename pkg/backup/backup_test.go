package backup

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hearth/pkg/core"
	"github.com/aretw0/hearth/pkg/model"
)

func TestEncodeDecode(t *testing.T) {
	inventory := `[{"id":"x","name":"Laptop","purchaseDate":"2024-01-15T00:00:00Z","purchasePrice":1200}]`
	doc := New(map[string]json.RawMessage{
		model.KeyInventory: json.RawMessage(inventory),
		model.KeyNotes:     json.RawMessage(`[]`),
	}, time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC))

	data, err := Encode(doc)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "\n  \"inventory\": [\n    {\n      \"id\": \"x\"")
	assert.Contains(t, text, `"exportDate": "2024-01-20T09:00:00.000Z"`)
	assert.Contains(t, text, `"version": "1.0"`)
	assert.NotContains(t, text, "lending", "missing collections are omitted")

	decoded, err := Decode(data)
	require.NoError(t, err)
	collections, err := decoded.Collections()
	require.NoError(t, err)

	assert.Equal(t, inventory, collections[model.KeyInventory], "import must restore the exact stored text")
	assert.Equal(t, "[]", collections[model.KeyNotes])
	_, ok := collections[model.KeyLending]
	assert.False(t, ok)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{"notes": [`))
	var pe *core.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "backup", pe.Source)
}

func TestDecode_NullSection(t *testing.T) {
	doc, err := Decode([]byte(`{"notes": null, "reminders": [], "version": "1.0"}`))
	require.NoError(t, err)
	collections, err := doc.Collections()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{model.KeyReminders: "[]"}, collections)
}

func TestCheckVersion(t *testing.T) {
	for _, v := range []string{"", "1", "1.0", "1.7"} {
		assert.NoError(t, CheckVersion(v), v)
	}
	for _, v := range []string{"2.0", "0.9", "banana"} {
		assert.ErrorIs(t, CheckVersion(v), ErrIncompatibleVersion, v)
	}

	_, err := Decode([]byte(`{"notes": [], "version": "2.0"}`))
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestFileName(t *testing.T) {
	name := FileName(time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "productivity-hub-backup-2024-03-05.json", name)
	assert.True(t, strings.HasSuffix(name, ".json"))
}
