// Package backup reads and writes the single-file export of every
// collection.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/hearth/pkg/core"
	"github.com/aretw0/hearth/pkg/model"
)

// Version written into new backups.
const Version = "1.0"

// ErrIncompatibleVersion is returned for backups with a major version this
// build cannot read.
var ErrIncompatibleVersion = errors.New("incompatible backup version")

// Section maps a top-level backup field to its store key.
type Section struct {
	Field string
	Key   string
}

// Sections in document order.
var Sections = []Section{
	{Field: "notes", Key: model.KeyNotes},
	{Field: "calendarEvents", Key: model.KeyEvents},
	{Field: "reminders", Key: model.KeyReminders},
	{Field: "inventory", Key: model.KeyInventory},
	{Field: "lending", Key: model.KeyLending},
}

// Document is a backup file. Collections are kept as raw JSON so import
// writes them back exactly as they were exported.
type Document struct {
	Notes          json.RawMessage `json:"notes,omitempty"`
	CalendarEvents json.RawMessage `json:"calendarEvents,omitempty"`
	Reminders      json.RawMessage `json:"reminders,omitempty"`
	Inventory      json.RawMessage `json:"inventory,omitempty"`
	Lending        json.RawMessage `json:"lending,omitempty"`
	ExportDate     string          `json:"exportDate,omitempty"`
	Version        string          `json:"version,omitempty"`
}

// New builds a document from collections keyed by store key.
func New(collections map[string]json.RawMessage, exported time.Time) Document {
	doc := Document{
		ExportDate: exported.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Version:    Version,
	}
	for _, s := range Sections {
		if raw, ok := collections[s.Key]; ok {
			*doc.field(s.Field) = raw
		}
	}
	return doc
}

// Encode renders doc as JSON indented with two spaces.
func Encode(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

// Decode parses a backup file. Malformed JSON yields a *core.ParseError and
// an unreadable version ErrIncompatibleVersion.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, &core.ParseError{Source: "backup", Err: err}
	}
	if err := CheckVersion(doc.Version); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// CheckVersion accepts an empty version and any 1.x.
func CheckVersion(v string) error {
	if v == "" {
		return nil
	}
	major, _, _ := strings.Cut(v, ".")
	if major != "1" {
		return fmt.Errorf("%w: %q", ErrIncompatibleVersion, v)
	}
	return nil
}

// Collections returns the compacted text of every section present in doc,
// keyed by store key. Null sections count as absent.
func (d *Document) Collections() (map[string]string, error) {
	out := make(map[string]string, len(Sections))
	for _, s := range Sections {
		raw := *d.field(s.Field)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, &core.ParseError{Source: "backup." + s.Field, Err: err}
		}
		out[s.Key] = buf.String()
	}
	return out, nil
}

func (d *Document) field(name string) *json.RawMessage {
	switch name {
	case "notes":
		return &d.Notes
	case "calendarEvents":
		return &d.CalendarEvents
	case "reminders":
		return &d.Reminders
	case "inventory":
		return &d.Inventory
	case "lending":
		return &d.Lending
	}
	panic("backup: unknown section " + name)
}

// FileName is the conventional name of a backup taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("productivity-hub-backup-%s.json", t.Format(time.DateOnly))
}
