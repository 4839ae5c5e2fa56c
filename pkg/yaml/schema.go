package yaml

import (
	"encoding/json"
	"fmt"
	"path"
	"reflect"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator reflects a JSON schema from a Go value.
// Uses [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	v  any
	id string
}

// NewSchemaGenerator creates a [SchemaGenerator] for v. The id is written to
// the schema's $id.
func NewSchemaGenerator(v any, id string) *SchemaGenerator {
	return &SchemaGenerator{v: v, id: id}
}

// Generate returns the indented JSON schema. Nested structs are inlined, so
// the result has no $defs.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct:             true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Namer:                      qualifiedTypeName,
	}

	s := r.Reflect(g.v)
	if g.id != "" {
		s.ID = jsonschema.ID(g.id)
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}

// qualifiedTypeName keys reflected types by package and name. The reflector
// keys them by name alone, so two structs called Config in different
// packages would otherwise replace each other.
func qualifiedTypeName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return ""
	}

	return path.Base(t.PkgPath()) + "." + t.Name()
}
