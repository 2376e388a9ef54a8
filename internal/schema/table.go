package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Column is one `{"name": "TYPE"}` entry of a table description.
type Column struct {
	Name string
	Type string
}

func (c *Column) UnmarshalJSON(b []byte) error {
	name, value, err := singleEntry(b)
	if err != nil {
		return fmt.Errorf("column: %w", err)
	}
	c.Name, c.Type = name, value
	return nil
}

// ForeignKey is one `{"column": "REFERENCES Table(col)"}` entry.
type ForeignKey struct {
	Column     string
	References string
}

func (f *ForeignKey) UnmarshalJSON(b []byte) error {
	name, value, err := singleEntry(b)
	if err != nil {
		return fmt.Errorf("foreign key: %w", err)
	}
	f.Column, f.References = name, value
	return nil
}

var referencesRe = regexp.MustCompile(`(?i)REFERENCES\s+([A-Za-z0-9_"\-]+)\s*\(([^)]+)\)`)

// Target returns the referenced table and column, already sanitized.
func (f ForeignKey) Target() (table, column string, err error) {
	m := referencesRe.FindStringSubmatch(f.References)
	if m == nil {
		return "", "", fmt.Errorf("invalid foreign key for %s: %q", f.Column, f.References)
	}
	return Ident(strings.ReplaceAll(m[1], `"`, "")), Ident(strings.TrimSpace(m[2])), nil
}

// Table describes one table to create.
type Table struct {
	Name        string       `json:"name"`
	Columns     []Column     `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreign_keys"`
}

type document struct {
	Tables []Table `json:"tables"`
}

// Parse reads a `{"tables": [...]}` description.
func Parse(r io.Reader) ([]Table, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	for i, t := range doc.Tables {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("table #%d has no name", i+1)
		}
		if len(t.Columns) == 0 {
			return nil, fmt.Errorf("table %s has no columns", t.Name)
		}
	}
	return doc.Tables, nil
}

// Load parses the description stored at path.
func Load(path string) ([]Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func singleEntry(b []byte) (string, string, error) {
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return "", "", err
	}
	if len(m) != 1 {
		return "", "", fmt.Errorf("expected exactly one entry, got %d", len(m))
	}
	for k, v := range m {
		return k, v, nil
	}
	return "", "", nil
}
