package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"

	"github.com/jo-hoe/go-request-template/app/template"
	"github.com/jo-hoe/go-request-template/app/value"
)

var envRegex = regexp.MustCompile(`\$\{([0-9A-Za-z_]+)\}`)

// envLookup merges the process environment with the optional dotenv file.
// Process variables win over file entries.
func envLookup(o loadOptions, envFile string) (func(string) (string, bool), error) {
	if envFile == "" {
		return o.lookupEnv, nil
	}
	path := envFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(o.baseDir, path)
	}
	fileVars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("could not read envFile '%s': %w", path, err)
	}
	return func(name string) (string, bool) {
		if v, ok := o.lookupEnv(name); ok {
			return v, true
		}
		v, ok := fileVars[name]
		return v, ok
	}, nil
}

// expandEnv replaces ${NAME} occurrences using lookup.
// Missing variables are substituted with empty string and logged as warnings.
func expandEnv(input string, lookup func(string) (string, bool), logger *slog.Logger) string {
	return envRegex.ReplaceAllStringFunc(input, func(match string) string {
		key := match[2 : len(match)-1]
		if val, ok := lookup(key); ok {
			return val
		}
		logger.Warn("environment variable not found; substituting empty string", "variable", key)
		return ""
	})
}

func expandTemplateEnv(t template.Template, lookup func(string) (string, bool), logger *slog.Logger) template.Template {
	expand := func(s string) string { return expandEnv(s, lookup, logger) }

	expanded := t.Clone()
	expanded.Endpoint = expand(t.Endpoint)
	expanded.Method = expand(t.Method)
	expanded.BodyFormat = expand(t.BodyFormat)
	for k, v := range expanded.Headers {
		expanded.Headers[k] = expand(v)
	}
	for k, v := range expanded.Data {
		expanded.Data[k] = expandValueEnv(v, expand)
	}
	expanded.Auth = template.Auth{
		Type:     expand(t.Auth.Type),
		Username: expand(t.Auth.Username),
		Password: expand(t.Auth.Password),
		Token:    expand(t.Auth.Token),
	}
	return expanded
}

func expandValueEnv(v value.Value, expand func(string) string) value.Value {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return value.String(expand(s))
	case value.KindObject:
		obj, _ := v.AsObject()
		out := make(map[string]value.Value, len(obj))
		for k, item := range obj {
			out[k] = expandValueEnv(item, expand)
		}
		return value.Object(out)
	case value.KindArray:
		items, _ := v.AsArray()
		out := make([]value.Value, len(items))
		for i, item := range items {
			out[i] = expandValueEnv(item, expand)
		}
		return value.Array(out...)
	default:
		return v
	}
}
