package v1beta1_test

import (
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfdirect/cfdirect/api/v1beta1"
)

func TestNewTypeMeta(t *testing.T) {
	t.Parallel()

	tm := v1beta1.NewTypeMeta("Configuration")

	assert.Equal(t, "cfdirect.dev/v1beta1", tm.GetAPIVersion())
	assert.Equal(t, "Configuration", tm.GetKind())
}

func TestPinTypeMeta(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		props     []string
		wantPanic bool
	}{
		"both properties": {
			props: []string{"apiVersion", "kind"},
		},
		"missing apiVersion": {
			props:     []string{"kind"},
			wantPanic: true,
		},
		"missing kind": {
			props:     []string{"apiVersion"},
			wantPanic: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := &jsonschema.Schema{Properties: jsonschema.NewProperties()}
			for _, p := range tc.props {
				s.Properties.Set(p, &jsonschema.Schema{Type: "string"})
			}

			if tc.wantPanic {
				assert.Panics(t, func() { v1beta1.PinTypeMeta(s, "Configuration") })

				return
			}

			v1beta1.PinTypeMeta(s, "Configuration")

			apiVersion, ok := s.Properties.Get("apiVersion")
			require.True(t, ok)
			assert.Equal(t, v1beta1.APIVersion, apiVersion.Const)

			kind, ok := s.Properties.Get("kind")
			require.True(t, ok)
			assert.Equal(t, "Configuration", kind.Const)
		})
	}
}
