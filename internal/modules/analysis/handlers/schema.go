package handlers

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/aristath/yieldwise/internal/domain"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// requestSchema validates the shape of analysis request bodies
type requestSchema struct {
	schema *gojsonschema.Schema
}

// loadRequestSchemas compiles the analysis request schema and its
// scenario variant, which accepts partial requests
func loadRequestSchemas() (full, scenario *requestSchema, err error) {
	data, err := schemaFS.ReadFile("schemas/analyze_request.json")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read request schema: %w", err)
	}
	full, err = compileSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, nil, err
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse request schema: %w", err)
	}
	dropRequired(doc)
	scenario, err = compileSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, nil, err
	}
	return full, scenario, nil
}

func compileSchema(loader gojsonschema.JSONLoader) (*requestSchema, error) {
	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("failed to compile request schema: %w", err)
	}
	return &requestSchema{schema: schema}, nil
}

// dropRequired removes every "required" keyword from a schema document
func dropRequired(node interface{}) {
	switch n := node.(type) {
	case map[string]interface{}:
		delete(n, "required")
		for _, v := range n {
			dropRequired(v)
		}
	case []interface{}:
		for _, v := range n {
			dropRequired(v)
		}
	}
}

// validate checks body against the schema. Violations are returned as a
// *domain.ValidationError; prefix is prepended to field paths.
func (s *requestSchema) validate(body []byte, prefix string) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		verr := domain.NewValidationError("malformed request body")
		verr.Add(strings.TrimSuffix(prefix, "."), err.Error())
		return verr
	}
	if result.Valid() {
		return nil
	}

	verr := domain.NewValidationError("request does not match schema")
	for _, e := range result.Errors() {
		verr.Add(prefix+errorField(e), e.Description())
	}
	return verr
}

// errorField names the offending field, including the missing property
// for required-field errors
func errorField(e gojsonschema.ResultError) string {
	var parts []string
	if f := e.Field(); f != "(root)" && f != "" {
		parts = append(parts, f)
	}
	if e.Type() == "required" {
		if name, ok := e.Details()["property"].(string); ok {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ".")
}
