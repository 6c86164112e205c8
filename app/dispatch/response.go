package dispatch

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ohler55/ojg/jp"
)

// Response is the result of a dispatched request with its body already read.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	body       []byte
}

func newResponse(resp *http.Response, body []byte) *Response {
	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		body:       body,
	}
}

func (r *Response) Body() []byte { return r.body }

func (r *Response) Text() string { return string(r.body) }

func (r *Response) OK() bool { return r.StatusCode == http.StatusOK }

func (r *Response) Created() bool { return r.StatusCode == http.StatusCreated }

func (r *Response) Successful() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

func (r *Response) Failed() bool { return r.StatusCode >= 400 }

// JSON decodes the body into target.
func (r *Response) JSON(target any) error {
	return json.Unmarshal(r.body, target)
}

// Lookup evaluates a JSONPath expression such as "$.data.items[0].id" against the body.
func (r *Response) Lookup(path string) ([]any, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath '%s': %w", path, err)
	}
	var data any
	if err := json.Unmarshal(r.body, &data); err != nil {
		return nil, fmt.Errorf("response body is not JSON: %w", err)
	}
	return expr.Get(data), nil
}
