package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/icholy/digest"
	"golang.org/x/net/http/httpguts"
	"golang.org/x/oauth2"

	"github.com/jo-hoe/go-request-template/app/logging"
)

type credentials struct {
	username string
	password string
}

// HTTPRequest is the net/http backed PendingRequest.
type HTTPRequest struct {
	client          *http.Client
	logger          *slog.Logger
	maxResponseSize int64
	requestIDHeader string

	basic  *credentials
	digest *credentials
	token  string
}

type ClientOption func(*HTTPRequest)

// WithHTTPClient sets the client whose transport and timeout are used. Defaults to http.DefaultClient.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(r *HTTPRequest) {
		if client != nil {
			r.client = client
		}
	}
}

// WithMaxResponseSize caps the number of response body bytes read. Zero means no limit.
func WithMaxResponseSize(n int64) ClientOption {
	return func(r *HTTPRequest) {
		r.maxResponseSize = n
	}
}

// WithRequestIDHeader sets a random UUID under name unless the request already carries it.
func WithRequestIDHeader(name string) ClientOption {
	return func(r *HTTPRequest) {
		r.requestIDHeader = name
	}
}

func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(r *HTTPRequest) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewHTTPRequest(opts ...ClientOption) *HTTPRequest {
	r := &HTTPRequest{
		client: http.DefaultClient,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewHTTPRequestFactory returns a constructor usable by New.
func NewHTTPRequestFactory(opts ...ClientOption) func() PendingRequest {
	return func() PendingRequest {
		return NewHTTPRequest(opts...)
	}
}

func (r *HTTPRequest) WithBasicAuth(username, password string) PendingRequest {
	c := r.withoutAuth()
	c.basic = &credentials{username: username, password: password}
	return c
}

func (r *HTTPRequest) WithDigestAuth(username, password string) PendingRequest {
	c := r.withoutAuth()
	c.digest = &credentials{username: username, password: password}
	return c
}

func (r *HTTPRequest) WithToken(token string) PendingRequest {
	c := r.withoutAuth()
	c.token = token
	return c
}

func (r *HTTPRequest) withoutAuth() *HTTPRequest {
	c := *r
	c.basic = nil
	c.digest = nil
	c.token = ""
	return &c
}

func (r *HTTPRequest) Send(ctx context.Context, method, endpoint string, opts Options) (*Response, error) {
	request, err := r.newRequest(ctx, method, endpoint, opts)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient().Do(request)
	if err != nil {
		r.logger.Error("could not send request", "method", request.Method, "url", request.URL.String(), "error", err)
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			r.logger.Warn("could not close response body", "error", cerr)
		}
	}()

	body, err := r.readBody(resp.Body)
	if err != nil {
		return nil, err
	}

	r.logger.Info("status code for request",
		"status", resp.StatusCode,
		"method", request.Method,
		"url", request.URL.String())
	return newResponse(resp, body), nil
}

func (r *HTTPRequest) newRequest(ctx context.Context, method, endpoint string, opts Options) (*http.Request, error) {
	for name, val := range opts.Headers {
		if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(val) {
			return nil, &InvalidHeaderError{Name: name, Value: val}
		}
	}

	encoder, err := newBodyEncoder(opts.BodyFormat)
	if err != nil {
		return nil, err
	}
	parts := newRequestParts()
	if err := encoder.Apply(opts.Body, parts); err != nil {
		return nil, fmt.Errorf("could not encode %s body: %w", encoder.Format(), err)
	}

	target, err := mergeQuery(endpoint, parts.Query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if parts.Body != nil {
		body = bytes.NewReader(parts.Body)
	}
	request, err := http.NewRequestWithContext(ctx, strings.ToUpper(strings.TrimSpace(method)), target, body)
	if err != nil {
		return nil, err
	}

	for name, val := range opts.Headers {
		request.Header.Set(name, val)
	}
	if parts.ContentType != "" && (parts.ContentTypeFixed || request.Header.Get("Content-Type") == "") {
		request.Header.Set("Content-Type", parts.ContentType)
	}
	if r.requestIDHeader != "" && request.Header.Get(r.requestIDHeader) == "" {
		request.Header.Set(r.requestIDHeader, uuid.NewString())
	}
	if r.basic != nil {
		request.SetBasicAuth(r.basic.username, r.basic.password)
	}
	return request, nil
}

// httpClient wraps the configured transport with digest or bearer token handling.
func (r *HTTPRequest) httpClient() *http.Client {
	if r.digest == nil && r.token == "" {
		return r.client
	}

	base := r.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client := *r.client
	switch {
	case r.digest != nil:
		client.Transport = &digest.Transport{
			Username:  r.digest.username,
			Password:  r.digest.password,
			Transport: base,
		}
	case r.token != "":
		client.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: r.token}),
			Base:   base,
		}
	}
	return &client
}

func (r *HTTPRequest) readBody(body io.Reader) ([]byte, error) {
	if r.maxResponseSize <= 0 {
		return io.ReadAll(body)
	}
	data, err := io.ReadAll(io.LimitReader(body, r.maxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.maxResponseSize {
		return nil, &ResponseTooLargeError{Limit: r.maxResponseSize}
	}
	return data, nil
}

// mergeQuery appends params to the endpoint's query string. The existing query
// is kept exactly as written.
func mergeQuery(endpoint string, params url.Values) (string, error) {
	if len(params) == 0 {
		return endpoint, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if u.RawQuery == "" {
		u.RawQuery = params.Encode()
	} else {
		u.RawQuery = strings.TrimSuffix(u.RawQuery, "&") + "&" + params.Encode()
	}
	return u.String(), nil
}
