package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrFrontMatterInvalid = errors.New("validation: front matter invalid")

// frontMatterSchema is the contract every documentation page's metadata block
// must satisfy before it enters the catalog. Unknown keys are allowed so
// custom metadata can flow through to layouts.
const frontMatterSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"type": {"type": "string", "minLength": 1},
		"layout": {"type": "string", "minLength": 1},
		"category": {"type": "string", "minLength": 1},
		"title": {"type": "string", "minLength": 1},
		"slug": {"type": "string", "pattern": "^[a-z0-9]+(?:-[a-z0-9]+)*$"},
		"summary": {"type": "string"},
		"weight": {"type": "integer", "minimum": 0},
		"tags": {"type": "array", "items": {"type": "string"}},
		"draft": {"type": "boolean"}
	},
	"required": ["type", "layout", "category", "title"],
	"additionalProperties": true
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// FrontMatterError surfaces schema violations with per-key context.
type FrontMatterError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *FrontMatterError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrFrontMatterInvalid.Error()
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
	return strings.Join(parts, "; ")
}

func (e *FrontMatterError) Unwrap() error {
	return ErrFrontMatterInvalid
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var fmErr *FrontMatterError
	if errors.As(err, &fmErr) && fmErr != nil {
		return fmErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// ValidateFrontMatter checks the raw metadata map of a documentation page
// against the page schema.
func ValidateFrontMatter(payload map[string]any) error {
	schema, err := pageSchema()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFrontMatterInvalid, err)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if err := schema.Validate(normalizePayload(payload)); err != nil {
		return &FrontMatterError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

func pageSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("frontmatter.json", strings.NewReader(frontMatterSchema)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile("frontmatter.json")
	})
	return compiledSchema, compileErr
}

// normalizePayload round-trips the payload through JSON so YAML-decoded
// values (time.Time, ints vs json.Number) compare the way the schema expects.
func normalizePayload(payload map[string]any) any {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return payload
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var normalized any
	if err := decoder.Decode(&normalized); err != nil {
		return payload
	}
	return normalized
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
