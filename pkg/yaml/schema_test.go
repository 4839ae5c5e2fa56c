package yaml_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfdirect/cfdirect/pkg/locate"
	"github.com/cfdirect/cfdirect/pkg/routing"
	"github.com/cfdirect/cfdirect/pkg/yaml"
)

type sameNamedSubject struct {
	Routing *routing.Config `json:"routing,omitempty"`
	Search  *locate.Config  `json:"search,omitempty"`
	Name    string          `json:"name"`
}

type schemaSubject struct {
	Name  string   `json:"name" jsonschema:"required"`
	Items []string `json:"items,omitempty"`
}

func TestSchemaGenerator_Generate(t *testing.T) {
	t.Parallel()

	gen := yaml.NewSchemaGenerator(&schemaSubject{}, "https://example.com/subject.json")

	b, err := gen.Generate()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))

	assert.Equal(t, "https://example.com/subject.json", got["$id"])
	assert.Equal(t, "object", got["type"])
	assert.Equal(t, []any{"name"}, got["required"])

	props, ok := got["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "name")
	assert.Contains(t, props, "items")

	// The generated schema must be usable by the validator.
	v, err := yaml.NewValidator("subject.json", b)
	require.NoError(t, err)
	require.NoError(t, v.Validate(map[string]any{"name": "x"}))
	require.Error(t, v.Validate(map[string]any{"items": []any{"a"}}))
}

func TestSchemaGenerator_SameNamedTypes(t *testing.T) {
	t.Parallel()

	b, err := yaml.NewSchemaGenerator(&sameNamedSubject{}, "").Generate()
	require.NoError(t, err)

	var got struct {
		Properties map[string]struct {
			Properties map[string]any `json:"properties"`
		} `json:"properties"`
		Defs map[string]any `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal(b, &got))

	require.Contains(t, got.Properties, "name")
	require.Contains(t, got.Properties, "routing")
	require.Contains(t, got.Properties, "search")
	assert.Contains(t, got.Properties["routing"].Properties, "outboundTag")
	assert.Contains(t, got.Properties["routing"].Properties, "ranges")
	assert.Contains(t, got.Properties["search"].Properties, "patterns")
	assert.NotContains(t, got.Properties["search"].Properties, "ranges")
	assert.Empty(t, got.Defs)
}
