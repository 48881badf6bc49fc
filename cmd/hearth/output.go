package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"
)

// table is the plain-text rendering of a result.
type table struct {
	header []string
	rows   [][]string
}

// render writes v as JSON or YAML when requested, otherwise as t.
func (a *app) render(w io.Writer, v any, t table) error {
	switch {
	case a.jsonOut:
		return writeJSON(w, v)
	case a.yamlOut:
		return writeYAML(w, v)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(t.header) > 0 {
		fmt.Fprintln(tw, strings.Join(t.header, "\t"))
	}
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML goes through JSON so field names follow the json tags.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// readInput parses --data (JSON or YAML, "@file" or "-" for stdin) into
// JSON bytes.
func readInput(in io.Reader, data string) ([]byte, error) {
	raw := []byte(data)
	switch {
	case data == "-":
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		raw = b
	case strings.HasPrefix(data, "@"):
		b, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		raw = b
	}

	if json.Valid(raw) {
		return raw, nil
	}

	// YAML is a superset of JSON; decode and re-encode.
	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("input is neither JSON nor YAML: %w", err)
	}
	if generic == nil {
		return nil, fmt.Errorf("input is empty")
	}
	return json.Marshal(generic)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func check(b bool) string {
	if b {
		return "x"
	}
	return " "
}
