package template

import (
	"strings"

	"github.com/jo-hoe/go-request-template/app/value"
)

// Validate returns a default-filled copy of t or an error if t is structurally invalid.
// The caller's template is never modified.
func Validate(t Template) (Template, error) {
	if strings.TrimSpace(t.Endpoint) == "" {
		return Template{}, &MissingEndpointError{}
	}
	if err := validateAuth(t.Auth); err != nil {
		return Template{}, err
	}

	validated := t.Clone()
	setDefaults(&validated)
	return validated, nil
}

func setDefaults(t *Template) {
	if t.Headers == nil {
		t.Headers = map[string]string{}
	}
	if t.Data == nil {
		t.Data = map[string]value.Value{}
	}
	if strings.TrimSpace(t.Method) == "" {
		t.Method = DefaultMethod
	}
	if strings.TrimSpace(t.BodyFormat) == "" {
		t.BodyFormat = defaultBodyFormat(t.Method)
	}
}

func defaultBodyFormat(method string) string {
	if strings.EqualFold(strings.TrimSpace(method), "GET") {
		return BodyFormatQuery
	}
	return BodyFormatJSON
}

func validateAuth(auth Auth) error {
	switch auth.Type {
	case AuthBasic, AuthDigest:
		if auth.Username == "" || auth.Password == "" {
			return &IncompleteAuthError{Type: auth.Type}
		}
	}
	return nil
}
