package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-sitepages/internal/fields"
	"github.com/goliatone/go-sitepages/internal/pages"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
	ErrUnknownSection   = errors.New("section not declared by page schema")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Section string
	Issues  []ValidationIssue
	Cause   error
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
		if e.Section != "" {
			location = e.Section + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
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

// ValidateSection checks section data against the JSON schema projection of
// its field definitions.
func ValidateSection(section pages.SectionSchema, data map[string]any) error {
	compiled, err := compileSchema(SectionJSONSchema(section.Fields))
	if err != nil {
		return fmt.Errorf("%w: section %s: %v", ErrSchemaInvalid, section.ID, err)
	}
	return validateWith(compiled, section.ID, data)
}

// PageValidator validates section data for every section of a page schema.
// Schemas are compiled once.
type PageValidator struct {
	compiled map[string]*jsonschema.Schema
}

// NewPageValidator compiles the sections of schema.
func NewPageValidator(schema pages.PageSchema) (*PageValidator, error) {
	v := &PageValidator{compiled: make(map[string]*jsonschema.Schema, len(schema.Sections))}
	for _, section := range schema.Sections {
		compiled, err := compileSchema(SectionJSONSchema(section.Fields))
		if err != nil {
			return nil, fmt.Errorf("%w: section %s: %v", ErrSchemaInvalid, section.ID, err)
		}
		v.compiled[section.ID] = compiled
	}
	return v, nil
}

// ValidateSection validates data for the section with the given id.
func (v *PageValidator) ValidateSection(sectionID string, data map[string]any) error {
	compiled, ok := v.compiled[sectionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSection, sectionID)
	}
	return validateWith(compiled, sectionID, data)
}

func validateWith(compiled *jsonschema.Schema, sectionID string, data map[string]any) error {
	payload := fields.NormalizeRecord(data)
	if payload == nil {
		payload = map[string]any{}
	}
	if err := compiled.Validate(payload); err != nil {
		return &PayloadValidationError{
			Section: sectionID,
			Issues:  Issues(err),
			Cause:   err,
		}
	}
	return nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
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
