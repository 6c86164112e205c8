package template

import (
	"github.com/jo-hoe/go-request-template/app/value"
)

// Body formats understood by the dispatcher. Other tags are passed through to the transport.
const (
	BodyFormatJSON      = "json"
	BodyFormatQuery     = "query"
	BodyFormatForm      = "form_params"
	BodyFormatMultipart = "multipart"
)

// Auth types.
const (
	AuthBasic  = "basic"
	AuthDigest = "digest"
	AuthToken  = "token"
)

const DefaultMethod = "POST"

// Template describes an HTTP request whose string fields may hold {{name}} placeholders.
type Template struct {
	Endpoint   string                 `yaml:"endpoint" json:"endpoint"`
	Method     string                 `yaml:"method,omitempty" json:"method,omitempty"`
	BodyFormat string                 `yaml:"body_format,omitempty" json:"body_format,omitempty"`
	Headers    map[string]string      `yaml:"headers,omitempty" json:"headers,omitempty"`
	Data       map[string]value.Value `yaml:"data,omitempty" json:"data,omitempty"`
	Auth       Auth                   `yaml:"auth,omitempty" json:"auth,omitempty"`
}

// Auth carries credentials. Type is "basic", "digest" or "token".
type Auth struct {
	Type     string `yaml:"type,omitempty" json:"type,omitempty"`
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	Token    string `yaml:"token,omitempty" json:"token,omitempty"`
}

// IsZero reports whether no auth field is set.
func (a Auth) IsZero() bool {
	return a == Auth{}
}

// Clone returns a copy of t that shares no maps with it.
func (t Template) Clone() Template {
	c := t
	if t.Headers != nil {
		c.Headers = make(map[string]string, len(t.Headers))
		for k, v := range t.Headers {
			c.Headers[k] = v
		}
	}
	if t.Data != nil {
		c.Data = make(map[string]value.Value, len(t.Data))
		for k, v := range t.Data {
			c.Data[k] = v.Clone()
		}
	}
	return c
}
