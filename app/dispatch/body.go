package dispatch

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/url"
	"sort"
	"strconv"

	"github.com/jo-hoe/go-request-template/app/template"
	"github.com/jo-hoe/go-request-template/app/value"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// requestParts accumulates request elements before constructing the http.Request.
type requestParts struct {
	// Query holds parameters merged into the endpoint's query string
	Query url.Values
	// Body is nil when no body is sent
	Body        []byte
	ContentType string
	// ContentTypeFixed makes ContentType override a Content-Type header from the template
	ContentTypeFixed bool
}

func newRequestParts() *requestParts {
	return &requestParts{Query: url.Values{}}
}

// bodyEncoder places request data into the request according to one body format.
type bodyEncoder interface {
	Format() string
	Apply(data map[string]value.Value, parts *requestParts) error
}

// newBodyEncoder returns the encoder for format.
// Supports "json", "query", "form_params" and "multipart".
func newBodyEncoder(format string) (bodyEncoder, error) {
	switch format {
	case template.BodyFormatJSON:
		return &jsonEncoder{}, nil
	case template.BodyFormatQuery:
		return &queryEncoder{}, nil
	case template.BodyFormatForm:
		return &formEncoder{}, nil
	case template.BodyFormatMultipart:
		return &multipartEncoder{}, nil
	default:
		return nil, &UnsupportedBodyFormatError{Format: format}
	}
}

// -------------------- json --------------------

type jsonEncoder struct{}

func (e *jsonEncoder) Format() string { return template.BodyFormatJSON }

func (e *jsonEncoder) Apply(data map[string]value.Value, parts *requestParts) error {
	if data == nil {
		data = map[string]value.Value{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	parts.Body = body
	parts.ContentType = contentTypeJSON
	return nil
}

// -------------------- query --------------------

type queryEncoder struct{}

func (e *queryEncoder) Format() string { return template.BodyFormatQuery }

func (e *queryEncoder) Apply(data map[string]value.Value, parts *requestParts) error {
	for _, f := range flatten(data) {
		parts.Query.Add(f.key, f.value)
	}
	return nil
}

// -------------------- form_params --------------------

type formEncoder struct{}

func (e *formEncoder) Format() string { return template.BodyFormatForm }

func (e *formEncoder) Apply(data map[string]value.Value, parts *requestParts) error {
	form := url.Values{}
	for _, f := range flatten(data) {
		form.Add(f.key, f.value)
	}
	parts.Body = []byte(form.Encode())
	parts.ContentType = contentTypeForm
	parts.ContentTypeFixed = true
	return nil
}

// -------------------- multipart --------------------

type multipartEncoder struct{}

func (e *multipartEncoder) Format() string { return template.BodyFormatMultipart }

func (e *multipartEncoder) Apply(data map[string]value.Value, parts *requestParts) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range flatten(data) {
		if err := writer.WriteField(f.key, f.value); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}
	parts.Body = buf.Bytes()
	parts.ContentType = writer.FormDataContentType()
	parts.ContentTypeFixed = true
	return nil
}

type field struct {
	key   string
	value string
}

// flatten turns nested data into key/value pairs using bracket notation
// (a[b]=c, list[0]=x). Keys are emitted in sorted order; null values are skipped.
func flatten(data map[string]value.Value) []field {
	fields := make([]field, 0, len(data))
	for _, k := range sortedKeys(data) {
		fields = appendFields(fields, k, data[k])
	}
	return fields
}

func appendFields(fields []field, key string, v value.Value) []field {
	switch v.Kind() {
	case value.KindNull:
		return fields
	case value.KindObject:
		obj, _ := v.AsObject()
		for _, k := range sortedKeys(obj) {
			fields = appendFields(fields, key+"["+k+"]", obj[k])
		}
		return fields
	case value.KindArray:
		items, _ := v.AsArray()
		for i, item := range items {
			fields = appendFields(fields, key+"["+strconv.Itoa(i)+"]", item)
		}
		return fields
	default:
		return append(fields, field{key: key, value: v.Text()})
	}
}

func sortedKeys(m map[string]value.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
