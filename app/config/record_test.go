package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jo-hoe/go-request-template/app/value"
)

func TestLoadRecord(t *testing.T) {
	rec, err := LoadRecord([]byte(`
id: 42
name: Widget
active: true
tags: [a, b]
meta:
  price: 9.5
missing: null
`))
	require.NoError(t, err)

	assert.True(t, value.Equal(value.Int(42), rec["id"]))
	assert.True(t, value.Equal(value.String("Widget"), rec["name"]))
	assert.True(t, value.Equal(value.Bool(true), rec["active"]))
	assert.True(t, value.Equal(value.Array(value.String("a"), value.String("b")), rec["tags"]))
	assert.True(t, value.Equal(value.Object(map[string]value.Value{"price": value.Float(9.5)}), rec["meta"]))
	assert.True(t, rec["missing"].IsNull())
}

func TestLoadRecord_JSON(t *testing.T) {
	rec, err := LoadRecord([]byte(`{"id": 7, "name": "x"}`))
	require.NoError(t, err)
	assert.Len(t, rec, 2)
	assert.True(t, value.Equal(value.Int(7), rec["id"]))
}

func TestLoadRecord_Invalid(t *testing.T) {
	_, err := LoadRecord([]byte(`- just a list`))
	assert.Error(t, err)
}

func TestLoadRecords(t *testing.T) {
	records, err := LoadRecords([]byte(`
- id: 1
- id: 2
  name: second
`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, value.Equal(value.Int(2), records[1]["id"]))
	assert.True(t, value.Equal(value.String("second"), records[1]["name"]))
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantValue value.Value
		wantErr   bool
	}{
		{name: "number", input: "id=5", wantName: "id", wantValue: value.Int(5)},
		{name: "string", input: "name=Widget", wantName: "name", wantValue: value.String("Widget")},
		{name: "bool", input: "active=true", wantName: "active", wantValue: value.Bool(true)},
		{name: "null", input: "gone=null", wantName: "gone", wantValue: value.Null()},
		{name: "empty", input: "blank=", wantName: "blank", wantValue: value.String("")},
		{name: "value with equals", input: "q=a=b", wantName: "q", wantValue: value.String("a=b")},
		{name: "quoted number", input: `zip="01234"`, wantName: "zip", wantValue: value.String("01234")},
		{name: "list", input: "ids=[1, 2]", wantName: "ids", wantValue: value.Array(value.Int(1), value.Int(2))},
		{name: "no equals", input: "id", wantErr: true},
		{name: "no name", input: "=5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, v, err := ParseAssignment(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.True(t, value.Equal(tt.wantValue, v), "got %v, want %v", v, tt.wantValue)
		})
	}
}
