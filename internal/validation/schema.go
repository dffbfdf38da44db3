// Package validation checks source item payloads against a JSON schema
// derived from the translatable field set of their content type.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-autotranslate/internal/content"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError surfaces validation issues with their JSON pointer.
type PayloadValidationError struct {
	ContentType content.Type
	Issues      []ValidationIssue
	Cause       error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return fmt.Sprintf("%s fields: %s", e.ContentType, strings.Join(parts, "; "))
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// ItemSchema describes the field map of contentType. Text fields must be
// strings; JSON fields may be an encoded string or an already decoded value.
// Both may be null, and fields outside the translatable set are allowed.
func ItemSchema(contentType content.Type) (map[string]any, error) {
	specs := content.Fields(contentType)
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: unknown content type %q", ErrSchemaInvalid, contentType)
	}
	properties := make(map[string]any, len(specs))
	for _, spec := range specs {
		switch spec.Kind {
		case content.FieldJSON:
			properties[spec.Name] = map[string]any{"type": []any{"string", "array", "object", "null"}}
		default:
			properties[spec.Name] = map[string]any{"type": []any{"string", "null"}}
		}
	}
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}, nil
}

var compiled sync.Map // content.Type -> *jsonschema.Schema

// ValidateItemFields validates fields against ItemSchema(contentType).
// Values must be in their JSON-decoded form.
func ValidateItemFields(contentType content.Type, fields map[string]any) error {
	schema, err := schemaFor(contentType)
	if err != nil {
		return err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	if err := schema.Validate(fields); err != nil {
		return &PayloadValidationError{
			ContentType: contentType,
			Issues:      Issues(err),
			Cause:       err,
		}
	}
	return nil
}

func schemaFor(contentType content.Type) (*jsonschema.Schema, error) {
	if cached, ok := compiled.Load(contentType); ok {
		return cached.(*jsonschema.Schema), nil
	}
	raw, err := ItemSchema(contentType)
	if err != nil {
		return nil, err
	}
	schema, err := compileSchema(string(contentType), raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	actual, _ := compiled.LoadOrStore(contentType, schema)
	return actual.(*jsonschema.Schema), nil
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	resource := name + ".schema.json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resource, bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile(resource)
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
