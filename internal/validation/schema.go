package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrEnvelopeInvalid = errors.New("validation: response envelope invalid")
	ErrEmailInvalid    = errors.New("validation: email address invalid")
)

// envelopeSchema accepts the collection and singleton shapes returned by the
// content API. data may be an object, an array or null.
const envelopeSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["data"],
	"properties": {
		"data": {"type": ["object", "array", "null"]},
		"meta": {
			"type": "object",
			"properties": {
				"pagination": {
					"type": "object",
					"properties": {
						"page": {"type": "integer", "minimum": 0},
						"pageSize": {"type": "integer", "minimum": 0},
						"pageCount": {"type": "integer", "minimum": 0},
						"total": {"type": "integer", "minimum": 0}
					}
				}
			}
		}
	}
}`

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrEnvelopeInvalid.Error()
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

func (e *PayloadValidationError) Unwrap() error {
	return ErrEnvelopeInvalid
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

var compiledEnvelope = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("envelope.json", strings.NewReader(envelopeSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("envelope.json")
})

// ValidateEnvelope checks a decoded response body against the envelope schema.
func ValidateEnvelope(payload any) error {
	schema, err := compiledEnvelope()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEnvelopeInvalid, err)
	}
	if err := schema.Validate(payload); err != nil {
		return &PayloadValidationError{Issues: Issues(err), Cause: err}
	}
	return nil
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

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailRules is the rule set applied to subscriber addresses.
var EmailRules = []ozzo.Rule{
	ozzo.Required.Error("email is required"),
	ozzo.Match(emailPattern).Error("email must look like name@domain.tld"),
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail normalizes email and checks its syntax. The returned error
// wraps ErrEmailInvalid.
func ValidateEmail(email string) (string, error) {
	normalized := NormalizeEmail(email)
	if err := ozzo.Validate(normalized, EmailRules...); err != nil {
		return normalized, fmt.Errorf("%w: %v", ErrEmailInvalid, err)
	}
	return normalized, nil
}
