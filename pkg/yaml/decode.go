// Package yaml decodes and validates YAML, reporting errors against the
// source lines they come from.
package yaml

import (
	"errors"

	"github.com/goccy/go-yaml"
)

// Unmarshal decodes data into v. Syntax and type errors are returned as an
// [*Error] pointing at the offending token. Empty input leaves v unchanged.
func Unmarshal(data []byte, v any) error {
	err := yaml.UnmarshalWithOptions(data, v, yaml.AllowDuplicateMapKey())
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return &Error{Err: errors.New(yamlErr.GetMessage()), Token: yamlErr.GetToken()}
	}

	return err //nolint:wrapcheck // Not a positioned error, nothing to add.
}
