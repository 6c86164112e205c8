package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v2"

	"github.com/jo-hoe/go-request-template/app/value"
)

// configSchema checks field types only. Missing endpoints and incomplete
// credentials are reported by template.Validate.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "logLevel": {"type": "string"},
    "logFormat": {"type": "string"},
    "timeout": {"type": "string"},
    "retries": {"type": "integer"},
    "maxResponseSize": {"type": ["string", "integer"]},
    "coerceNumericStrings": {"type": "boolean"},
    "requestIdHeader": {"type": "string"},
    "envFile": {"type": "string"},
    "templates": {
      "type": "object",
      "additionalProperties": {"$ref": "#/$defs/template"}
    }
  },
  "$defs": {
    "template": {
      "type": "object",
      "properties": {
        "endpoint": {"type": "string"},
        "method": {"type": "string"},
        "body_format": {"type": "string"},
        "headers": {
          "type": "object",
          "additionalProperties": {"type": "string"}
        },
        "data": {"type": "object"},
        "auth": {
          "type": "object",
          "properties": {
            "type": {"type": "string"},
            "username": {"type": "string"},
            "password": {"type": "string"},
            "token": {"type": "string"}
          },
          "additionalProperties": false
        }
      },
      "additionalProperties": false
    }
  }
}`

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

func schema() (*jsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("config.json", strings.NewReader(configSchema)); err != nil {
			compiledSchemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, compiledSchemaErr = compiler.Compile("config.json")
	})
	return compiledSchema, compiledSchemaErr
}

// checkShape validates the raw document against configSchema and reports every violation.
func checkShape(yamlBytes []byte) error {
	var raw interface{}
	if err := yaml.Unmarshal(yamlBytes, &raw); err != nil {
		return err
	}
	doc, err := toJSONDocument(raw)
	if err != nil {
		return err
	}

	s, err := schema()
	if err != nil {
		return err
	}
	err = s.Validate(doc)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return err
	}
	var result *multierror.Error
	for _, leaf := range leafErrors(validationErr) {
		result = multierror.Append(result, fmt.Errorf("%s: %s", instancePath(leaf.InstanceLocation), leaf.Message))
	}
	return result.ErrorOrNil()
}

// toJSONDocument converts yaml.v2 output into the shapes encoding/json produces.
func toJSONDocument(raw interface{}) (interface{}, error) {
	v, err := value.FromAny(raw)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc interface{}
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func leafErrors(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, leafErrors(cause)...)
	}
	return leaves
}

// instancePath turns a JSON pointer like "/templates/a/auth" into "templates.a.auth".
func instancePath(pointer string) string {
	path := strings.TrimPrefix(pointer, "/")
	if path == "" {
		return "config"
	}
	return strings.ReplaceAll(path, "/", ".")
}
