package template

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTemplate is matched by every validation error.
var ErrInvalidTemplate = errors.New("invalid request template")

// MissingEndpointError is returned when a template has no endpoint.
type MissingEndpointError struct{}

func (e *MissingEndpointError) Error() string {
	return "Request template must define an 'endpoint'."
}

func (e *MissingEndpointError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

// IncompleteAuthError is returned when basic or digest auth lacks a username or password.
type IncompleteAuthError struct {
	Type string
}

func (e *IncompleteAuthError) Error() string {
	kind := e.Type
	if kind != "" {
		kind = strings.ToUpper(kind[:1]) + kind[1:]
	}
	return fmt.Sprintf("%s auth require a username and a password.", kind)
}

func (e *IncompleteAuthError) Is(target error) bool {
	return target == ErrInvalidTemplate
}
