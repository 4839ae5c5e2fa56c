package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var english = message.NewPrinter(language.English)

// Validator checks decoded YAML against a JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaJSON, registered under url.
func NewValidator(url string, schemaJSON []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()

	err = c.AddResource(url, doc)
	if err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}

	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: s}, nil
}

// MustNewValidator is like [NewValidator] but panics on error. For embedded
// schemas only.
func MustNewValidator(url string, schemaJSON []byte) *Validator {
	v, err := NewValidator(url, schemaJSON)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate checks data against the schema. A failure is returned as an
// [*Error] for the most deeply nested failing value, so that [Annotate] can
// point at it.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	leaf := deepestCause(verr)

	msg := leaf.Error()
	if leaf.ErrorKind != nil {
		msg = leaf.ErrorKind.LocalizedString(english)
	}

	return &Error{
		Err:  fmt.Errorf("schema validation: %s", msg),
		Path: instancePath(leaf.InstanceLocation),
	}
}

// deepestCause returns the leaf cause with the longest instance location.
// Ties go to the first one.
func deepestCause(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	best := err
	for _, cause := range err.Causes {
		c := deepestCause(cause)
		if best == err || len(c.InstanceLocation) > len(best.InstanceLocation) {
			best = c
		}
	}

	return best
}

// instancePath converts a JSON pointer split into segments to a YAML path.
// Numeric segments are sequence indexes.
func instancePath(location []string) *yaml.Path {
	pb := (&yaml.PathBuilder{}).Root()

	for _, part := range location {
		i, err := strconv.ParseUint(part, 10, 0)
		if err == nil {
			pb = pb.Index(uint(i))
		} else {
			pb = pb.Child(part)
		}
	}

	return pb.Build()
}
