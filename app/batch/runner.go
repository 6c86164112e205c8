package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jo-hoe/go-request-template/app/dispatch"
	"github.com/jo-hoe/go-request-template/app/logging"
	"github.com/jo-hoe/go-request-template/app/template"
	"github.com/jo-hoe/go-request-template/app/value"
)

const bodyPrefixLength = 100

// Sender is satisfied by *dispatch.Dispatcher.
type Sender interface {
	Send(ctx context.Context, t template.Template, rec value.Record) (*dispatch.Response, error)
}

// Result is the outcome for the record at Index.
type Result struct {
	Index    int
	Response *dispatch.Response
	Err      error
}

type Runner struct {
	sender  Sender
	retries int
	logger  *slog.Logger
}

type Option func(*Runner)

// WithRetries resends a request up to n more times when the transport fails.
// Responses with an error status are not retried.
func WithRetries(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.retries = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRunner(sender Sender, opts ...Option) *Runner {
	r := &Runner{
		sender: sender,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run sends t once per record concurrently and returns the results in input order.
func (r *Runner) Run(ctx context.Context, t template.Template, records []value.Record) []Result {
	results := make([]Result, len(records))
	r.logger.Info("start sending requests", "count", len(records))

	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		go r.runOne(ctx, t, i, rec, &results[i], &wg)
	}
	wg.Wait()

	return results
}

func (r *Runner) runOne(ctx context.Context, t template.Template, index int, rec value.Record,
	result *Result, wg *sync.WaitGroup) {
	defer wg.Done()

	result.Index = index
	for attempt := 0; attempt < r.retries+1; attempt++ {
		if err := ctx.Err(); err != nil {
			result.Err = err
			break
		}
		result.Response, result.Err = r.sender.Send(ctx, t, rec)
		if result.Err == nil {
			break
		}
		r.logger.Error("could not send request", "record", index, "attempt", attempt+1, "error", result.Err)
		if errors.Is(result.Err, template.ErrInvalidTemplate) {
			break
		}
	}
	if result.Err != nil {
		return
	}

	r.logger.Info("processed record",
		"record", index,
		"status", result.Response.StatusCode,
		"body", getPrefix(result.Response.Text(), bodyPrefixLength))
}

func getPrefix(input string, prefixLength int) string {
	if len(input) > prefixLength {
		return fmt.Sprintf("%s...", input[0:prefixLength])
	}
	return input
}
