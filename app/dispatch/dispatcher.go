package dispatch

import (
	"context"
	"log/slog"

	"github.com/jo-hoe/go-request-template/app/interpolate"
	"github.com/jo-hoe/go-request-template/app/logging"
	"github.com/jo-hoe/go-request-template/app/template"
	"github.com/jo-hoe/go-request-template/app/value"
)

// Dispatcher resolves templates and sends them through a PendingRequest.
type Dispatcher struct {
	newRequest   func() PendingRequest
	interpolator *interpolate.Interpolator
	logger       *slog.Logger
}

type Option func(*Dispatcher)

func WithInterpolator(i *interpolate.Interpolator) Option {
	return func(d *Dispatcher) {
		if i != nil {
			d.interpolator = i
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Dispatcher. newRequest is called once per Send.
func New(newRequest func() PendingRequest, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		newRequest:   newRequest,
		interpolator: interpolate.New(),
		logger:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Parse validates t and resolves its placeholders from rec.
func (d *Dispatcher) Parse(t template.Template, rec value.Record) (template.Template, error) {
	return d.interpolator.Parse(t, rec)
}

// Send resolves t with rec and dispatches it. With an empty record the template
// is only validated, so already resolved templates can be sent as they are.
// Transport errors and responses are returned unchanged.
func (d *Dispatcher) Send(ctx context.Context, t template.Template, rec value.Record) (*Response, error) {
	var (
		resolved template.Template
		err      error
	)
	if len(rec) > 0 {
		resolved, err = d.interpolator.Parse(t, rec)
	} else {
		resolved, err = template.Validate(t)
	}
	if err != nil {
		return nil, err
	}
	if names := interpolate.Unresolved(resolved); len(names) > 0 {
		d.logger.Warn("sending request with unresolved placeholders", "placeholders", names)
	}

	request := withAuth(d.newRequest(), resolved.Auth)
	d.logger.Debug("dispatching request", "method", resolved.Method, "endpoint", resolved.Endpoint, "bodyFormat", resolved.BodyFormat)
	return request.Send(ctx, resolved.Method, resolved.Endpoint, Options{
		Headers:    resolved.Headers,
		BodyFormat: resolved.BodyFormat,
		Body:       resolved.Data,
	})
}

func withAuth(request PendingRequest, auth template.Auth) PendingRequest {
	if auth.IsZero() {
		return request
	}
	switch auth.Type {
	case template.AuthBasic:
		return request.WithBasicAuth(auth.Username, auth.Password)
	case template.AuthDigest:
		return request.WithDigestAuth(auth.Username, auth.Password)
	}
	if auth.Token != "" {
		return request.WithToken(auth.Token)
	}
	return request
}
