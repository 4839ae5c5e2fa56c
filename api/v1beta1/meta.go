// Package v1beta1 holds the versioned header shared by cfdirect configuration files.
package v1beta1

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// APIVersion identifies this revision of the configuration format.
const APIVersion = "cfdirect.dev/v1beta1"

// TypeMeta is the apiVersion/kind header at the top of every configuration file.
type TypeMeta struct {
	APIVersion string `json:"apiVersion" jsonschema:"required,title=API Version"`
	Kind       string `json:"kind"       jsonschema:"required,title=Kind"`
}

// NewTypeMeta returns a header for kind at the current [APIVersion].
func NewTypeMeta(kind string) TypeMeta {
	return TypeMeta{APIVersion: APIVersion, Kind: kind}
}

func (tm TypeMeta) GetAPIVersion() string { return tm.APIVersion }

func (tm TypeMeta) GetKind() string { return tm.Kind }

// Object is implemented by every top-level configuration kind.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// PinTypeMeta restricts the apiVersion and kind properties of s to the
// current [APIVersion] and the given kind. It panics if s has no such
// properties, which only happens when [TypeMeta] is not inlined.
func PinTypeMeta(s *jsonschema.Schema, kind string) {
	for key, value := range map[string]string{"apiVersion": APIVersion, "kind": kind} {
		prop, ok := s.Properties.Get(key)
		if !ok {
			panic(fmt.Sprintf("schema has no %q property", key))
		}

		prop.Const = value
	}
}
