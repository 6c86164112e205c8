package dispatch

import (
	"context"

	"github.com/jo-hoe/go-request-template/app/value"
)

// PendingRequest is the HTTP client the dispatcher hands resolved templates to.
// The With* methods return a new PendingRequest and leave the receiver unchanged.
type PendingRequest interface {
	WithBasicAuth(username, password string) PendingRequest
	WithDigestAuth(username, password string) PendingRequest
	WithToken(token string) PendingRequest
	// Send performs the request. Non-2xx responses are returned, not treated as errors.
	Send(ctx context.Context, method, url string, opts Options) (*Response, error)
}

// Options carries the resolved parts of a request.
type Options struct {
	Headers map[string]string
	// BodyFormat selects how Body is encoded ("json", "query", "form_params", "multipart").
	BodyFormat string
	Body       map[string]value.Value
}
