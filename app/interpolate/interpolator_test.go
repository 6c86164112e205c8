package interpolate

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jo-hoe/go-request-template/app/template"
	"github.com/jo-hoe/go-request-template/app/value"
)

func mustRecord(t *testing.T, in map[string]any) value.Record {
	t.Helper()
	rec, err := value.NewRecord(in)
	require.NoError(t, err)
	return rec
}

func mustValue(t *testing.T, in any) value.Value {
	t.Helper()
	v, err := value.FromAny(in)
	require.NoError(t, err)
	return v
}

func assertValueEqual(t *testing.T, want, got value.Value) {
	t.Helper()
	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
	assert.True(t, value.Equal(want, got), "want %v, got %v", want, got)
}

func TestParse_InterpolatesEndpointHeadersAndAuth(t *testing.T) {
	tpl := template.Template{
		Endpoint: "https://api.example.com/users/{{userId}}",
		Headers: map[string]string{
			"Authorization": "Bearer {{apiToken}}",
			"X-App-Id":      "{{appId}}",
		},
		Auth: template.Auth{Type: "basic", Username: "{{user}}", Password: "{{pass}}"},
	}
	rec := mustRecord(t, map[string]any{
		"userId":   "123",
		"apiToken": "my-secret-token",
		"appId":    "xyz",
		"user":     "admin",
		"pass":     "p@ss",
	})

	got, err := New().Parse(tpl, rec)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/users/123", got.Endpoint)
	assert.Equal(t, map[string]string{
		"Authorization": "Bearer my-secret-token",
		"X-App-Id":      "xyz",
	}, got.Headers)
	assert.Equal(t, template.Auth{Type: "basic", Username: "admin", Password: "p@ss"}, got.Auth)
	assert.Equal(t, "POST", got.Method)
	assert.Equal(t, "json", got.BodyFormat)
}

func TestParse_NestedDataPreservingTypes(t *testing.T) {
	tpl := template.Template{
		Endpoint: "https://api.example.com/data",
		Data: map[string]value.Value{
			"id":       value.String("{{recordId}}"),
			"isActive": value.String("{{activeStatus}}"),
			"price":    value.String("{{itemPrice}}"),
			"details": mustValue(t, map[string]any{
				"name": "Item {{itemName}}",
				"tags": []any{"{{tag1}}", "{{tag2}}"},
			}),
			"optional": value.String("{{missingKey}}"),
			"complex_object": mustValue(t, map[string]any{
				"nested_array": []any{
					map[string]any{"field": "{{nestedField}}"},
				},
			}),
		},
	}
	rec := mustRecord(t, map[string]any{
		"recordId":     123,
		"activeStatus": true,
		"itemPrice":    99.99,
		"itemName":     "Widget",
		"tag1":         "electronics",
		"tag2":         "gadget",
		"nestedField":  map[string]any{"value": "test"},
	})

	got, err := New().Parse(tpl, rec)
	require.NoError(t, err)

	want := mustValue(t, map[string]any{
		"id":       123,
		"isActive": true,
		"price":    99.99,
		"details": map[string]any{
			"name": "Item Widget",
			"tags": []any{"electronics", "gadget"},
		},
		"optional": "{{missingKey}}",
		"complex_object": map[string]any{
			"nested_array": []any{
				map[string]any{"field": map[string]any{"value": "test"}},
			},
		},
	})
	assertValueEqual(t, want, value.Object(got.Data))

	assert.Equal(t, value.KindNumber, got.Data["id"].Kind())
	assert.Equal(t, value.KindBool, got.Data["isActive"].Kind())
}

func TestParse_EmptyRecordLeavesPlaceholders(t *testing.T) {
	tpl := template.Template{
		Endpoint: "https://api.example.com/test/{{id}}",
		Headers:  map[string]string{"X-Foo": "{{bar}}"},
		Data:     map[string]value.Value{"key": value.String("{{value}}")},
	}

	got, err := New().Parse(tpl, value.Record{})
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/test/{{id}}", got.Endpoint)
	assert.Equal(t, map[string]string{"X-Foo": "{{bar}}"}, got.Headers)
	assertValueEqual(t, value.Object(map[string]value.Value{"key": value.String("{{value}}")}), value.Object(got.Data))
}

func TestParse_ValidationRunsFirst(t *testing.T) {
	_, err := New().Parse(template.Template{Data: map[string]value.Value{"a": value.String("{{a}}")}}, nil)
	var missing *template.MissingEndpointError
	assert.ErrorAs(t, err, &missing)

	_, err = New().Parse(template.Template{
		Endpoint: "https://example.com",
		Auth:     template.Auth{Type: "digest", Username: "{{u}}"},
	}, value.Record{"u": value.String("x")})
	var incomplete *template.IncompleteAuthError
	assert.ErrorAs(t, err, &incomplete)
}

func TestParse_DoesNotMutateInputs(t *testing.T) {
	nested := value.Object(map[string]value.Value{"value": value.String("test")})
	rec := value.Record{"nested": nested, "name": value.String("Widget")}
	tpl := template.Template{
		Endpoint: "https://example.com/{{name}}",
		Headers:  map[string]string{"X-Name": "{{name}}"},
		Data: map[string]value.Value{
			"field": value.String("{{nested}}"),
			"list":  value.Array(value.String("{{name}}")),
		},
	}

	got, err := New().Parse(tpl, rec)
	require.NoError(t, err)

	resolvedField, _ := got.Data["field"].AsObject()
	resolvedField["value"] = value.String("changed")

	assert.Equal(t, "https://example.com/{{name}}", tpl.Endpoint)
	assert.Equal(t, "{{name}}", tpl.Headers["X-Name"])
	assertValueEqual(t, value.String("{{nested}}"), tpl.Data["field"])
	assertValueEqual(t, value.Array(value.String("{{name}}")), tpl.Data["list"])
	assertValueEqual(t, value.Object(map[string]value.Value{"value": value.String("test")}), rec["nested"])
}

func TestValue_Rules(t *testing.T) {
	rec := mustRecord(t, map[string]any{
		"recordId": 123,
		"itemName": "Widget",
		"nothing":  nil,
		"obj":      map[string]any{"a": 1},
		"list":     []any{1, 2},
		"flag":     false,
		"zip":      "01234",
	})

	tests := []struct {
		name  string
		input value.Value
		want  value.Value
	}{
		{name: "exact match number", input: value.String("{{recordId}}"), want: value.Int(123)},
		{name: "exact match null", input: value.String("{{nothing}}"), want: value.Null()},
		{name: "exact match object", input: value.String("{{obj}}"), want: mustValue(t, map[string]any{"a": 1})},
		{name: "exact match array", input: value.String("{{list}}"), want: mustValue(t, []any{1, 2})},
		{name: "partial string", input: value.String("Item {{itemName}}"), want: value.String("Item Widget")},
		{name: "partial number becomes text", input: value.String("id-{{recordId}}"), want: value.String("id-123")},
		{name: "partial bool becomes text", input: value.String("flag={{flag}}"), want: value.String("flag=false")},
		{name: "partial null becomes empty", input: value.String("x{{nothing}}y"), want: value.String("xy")},
		{name: "partial skips object", input: value.String("obj: {{obj}}"), want: value.String("obj: {{obj}}")},
		{name: "partial skips array", input: value.String("list: {{list}}"), want: value.String("list: {{list}}")},
		{name: "missing key passthrough", input: value.String("{{missingKey}}"), want: value.String("{{missingKey}}")},
		{name: "multiple tokens", input: value.String("{{itemName}}/{{recordId}}/{{itemName}}"), want: value.String("Widget/123/Widget")},
		{name: "numeric partial stays string", input: value.String("{{recordId}}0"), want: value.String("1230")},
		{name: "number unchanged", input: value.Float(1.5), want: value.Float(1.5)},
		{name: "bool unchanged", input: value.Bool(true), want: value.Bool(true)},
		{name: "null unchanged", input: value.Null(), want: value.Null()},
		{name: "exact match string", input: value.String("{{zip}}"), want: value.String("01234")},
	}
	interp := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := interp.Value(tt.input, rec)
			assert.Equal(t, tt.want.Kind(), got.Kind())
			assertValueEqual(t, tt.want, got)
		})
	}
}

func TestValue_CoerceNumericStrings(t *testing.T) {
	rec := value.Record{
		"major": value.Int(12),
		"minor": value.Int(5),
		"zip":   value.String("01234"),
	}
	interp := New(WithCoerceNumericStrings(true))

	got := interp.Value(value.String("{{major}}.{{minor}}"), rec)
	assert.Equal(t, value.KindNumber, got.Kind())
	assertValueEqual(t, value.Float(12.5), got)

	got = interp.Value(value.String("{{major}}0"), rec)
	assertValueEqual(t, value.Int(120), got)

	// leading zeros are not a JSON number
	got = interp.Value(value.String("0{{zip}}"), rec)
	assert.Equal(t, value.KindString, got.Kind())

	// literal numeric strings without substitution are left alone
	got = interp.Value(value.String("42"), rec)
	assert.Equal(t, value.KindString, got.Kind())

	// endpoint, headers and auth are always strings
	assert.Equal(t, "125", interp.String("{{major}}{{minor}}", rec))
}

func TestValue_DeepNesting(t *testing.T) {
	leaf := value.String("{{deep}}")
	nested := leaf
	for depth := 0; depth < 50; depth++ {
		if depth%2 == 0 {
			nested = value.Object(map[string]value.Value{"level": nested, "static": value.Int(int64(depth))})
		} else {
			nested = value.Array(value.String("first"), nested)
		}
	}
	rec := value.Record{"deep": value.Bool(true)}

	got := New().Value(nested, rec)

	current := got
	for depth := 49; depth >= 0; depth-- {
		if depth%2 == 0 {
			obj, ok := current.AsObject()
			require.True(t, ok)
			assertValueEqual(t, value.Int(int64(depth)), obj["static"])
			current = obj["level"]
		} else {
			items, ok := current.AsArray()
			require.True(t, ok)
			require.Len(t, items, 2)
			assertValueEqual(t, value.String("first"), items[0])
			current = items[1]
		}
	}
	assertValueEqual(t, value.Bool(true), current)
}

func TestParse_Idempotent(t *testing.T) {
	tpl := template.Template{
		Endpoint: "https://example.com/{{id}}",
		Method:   "GET",
		Headers:  map[string]string{"X-Id": "{{id}}"},
		Data: map[string]value.Value{
			"id":   value.String("{{id}}"),
			"tags": value.Array(value.String("{{tag}}")),
		},
		Auth: template.Auth{Type: "token", Token: "{{token}}"},
	}
	rec := value.Record{"id": value.Int(7), "tag": value.String("a"), "token": value.String("t")}
	interp := New(WithCoerceNumericStrings(true))

	once, err := interp.Parse(tpl, rec)
	require.NoError(t, err)
	twice, err := interp.Parse(once, rec)
	require.NoError(t, err)

	assert.Equal(t, once.Endpoint, twice.Endpoint)
	assert.Equal(t, once.Headers, twice.Headers)
	assert.Equal(t, once.Auth, twice.Auth)
	assertValueEqual(t, value.Object(once.Data), value.Object(twice.Data))
}

func TestParse_LogsUnresolvedPlaceholders(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(WithLogger(logger)).Parse(template.Template{Endpoint: "https://example.com/{{missing}}"}, nil)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "placeholder=missing")
}
