package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/jo-hoe/go-request-template/app/value"
)

// LoadRecord decodes a data record from a YAML or JSON mapping.
func LoadRecord(data []byte) (value.Record, error) {
	rec := value.Record{}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("could not decode data record: %w", err)
	}
	return rec, nil
}

// LoadRecords decodes a YAML or JSON sequence of data records.
func LoadRecords(data []byte) ([]value.Record, error) {
	var records []value.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("could not decode data records: %w", err)
	}
	return records, nil
}

// ParseAssignment decodes "name=value" where value is read as a YAML scalar,
// so "id=5" yields a number and "name=Widget" a string.
func ParseAssignment(assignment string) (string, value.Value, error) {
	name, raw, ok := strings.Cut(assignment, "=")
	if !ok || name == "" {
		return "", value.Null(), fmt.Errorf("expected name=value, got '%s'", assignment)
	}
	if raw == "" {
		return name, value.String(""), nil
	}
	var v value.Value
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return "", value.Null(), fmt.Errorf("could not decode value of '%s': %w", name, err)
	}
	return name, v, nil
}
