package interpolate

import (
	"encoding/json"
	"log/slog"
	"regexp"

	"github.com/jo-hoe/go-request-template/app/logging"
	"github.com/jo-hoe/go-request-template/app/placeholder"
	"github.com/jo-hoe/go-request-template/app/template"
	"github.com/jo-hoe/go-request-template/app/value"
)

// numericRegex matches JSON number literals.
var numericRegex = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?$`)

// Interpolator substitutes {{name}} tokens with data record values.
// It holds no per-call state and is safe for concurrent use.
type Interpolator struct {
	coerceNumericStrings bool
	logger               *slog.Logger
}

type Option func(*Interpolator)

// WithCoerceNumericStrings turns a partially substituted string that ends up
// being a plain number into a number value. Only applies inside request data.
// Disabled by default: such results stay strings.
func WithCoerceNumericStrings(enabled bool) Option {
	return func(i *Interpolator) {
		i.coerceNumericStrings = enabled
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpolator) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func New(opts ...Option) *Interpolator {
	i := &Interpolator{logger: logging.Nop()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Parse validates t and resolves placeholders in its endpoint, headers, data and auth.
// Neither t nor rec is modified.
func (i *Interpolator) Parse(t template.Template, rec value.Record) (template.Template, error) {
	validated, err := template.Validate(t)
	if err != nil {
		return template.Template{}, err
	}

	resolved := validated
	resolved.Endpoint = i.String(validated.Endpoint, rec)
	resolved.Headers = i.stringMap(validated.Headers, rec)
	resolved.Data = i.valueMap(validated.Data, rec)
	resolved.Auth = i.auth(validated.Auth, rec)
	return resolved, nil
}

// Value resolves placeholders in v. Objects and arrays are walked recursively.
// A string that is exactly one known token is replaced by the record value with
// its original kind; any other string gets textual substitution of scalar values.
func (i *Interpolator) Value(v value.Value, rec value.Record) value.Value {
	switch v.Kind() {
	case value.KindObject:
		obj, _ := v.AsObject()
		return value.Object(i.valueMap(obj, rec))
	case value.KindArray:
		items, _ := v.AsArray()
		resolved := make([]value.Value, len(items))
		for idx, item := range items {
			resolved[idx] = i.Value(item, rec)
		}
		return value.Array(resolved...)
	case value.KindString:
		s, _ := v.AsString()
		if name, ok := placeholder.ExactName(s); ok {
			if replacement, found := rec.Lookup(name); found {
				return replacement.Clone()
			}
		}
		expanded, replaced := i.expand(s, rec)
		if replaced && i.coerceNumericStrings && numericRegex.MatchString(expanded) {
			return value.Number(json.Number(expanded))
		}
		return value.String(expanded)
	default:
		return v
	}
}

// String performs textual substitution only. The result is always a string.
func (i *Interpolator) String(s string, rec value.Record) string {
	expanded, _ := i.expand(s, rec)
	return expanded
}

func (i *Interpolator) expand(s string, rec value.Record) (string, bool) {
	return placeholder.Expand(s, func(name string) (string, bool) {
		v, ok := rec.LookupScalar(name)
		if !ok {
			i.logger.Debug("placeholder has no scalar value; leaving it unchanged", "placeholder", name)
			return "", false
		}
		return v.Text(), true
	})
}

func (i *Interpolator) stringMap(in map[string]string, rec value.Record) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = i.String(v, rec)
	}
	return out
}

func (i *Interpolator) valueMap(in map[string]value.Value, rec value.Record) map[string]value.Value {
	out := make(map[string]value.Value, len(in))
	for k, v := range in {
		out[k] = i.Value(v, rec)
	}
	return out
}

func (i *Interpolator) auth(a template.Auth, rec value.Record) template.Auth {
	return template.Auth{
		Type:     a.Type,
		Username: i.String(a.Username, rec),
		Password: i.String(a.Password, rec),
		Token:    i.String(a.Token, rec),
	}
}
