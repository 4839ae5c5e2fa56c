// Package configs provides the Configuration type for cfdirect.
package configs

import (
	"fmt"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/cfdirect/cfdirect/api"
	"github.com/cfdirect/cfdirect/api/v1beta1"
	"github.com/cfdirect/cfdirect/pkg/locate"
	"github.com/cfdirect/cfdirect/pkg/routing"
	"github.com/cfdirect/cfdirect/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/main.go -o configs.v1beta1.json

// Kind is the kind of the cfdirect configuration file.
const Kind = "Configuration"

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed configs.v1beta1.json
	schemaJSON []byte

	// DefaultValidator validates configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/configs.v1beta1.json", schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config represents the cfdirect configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Routing controls the rule that is ensured in each client configuration.
	Routing *routing.Config `json:"routing,omitempty" jsonschema:"title=Routing"`
	// Search controls where client configurations are looked for.
	Search           *locate.Config `json:"search,omitempty" jsonschema:"title=Search"`
	v1beta1.TypeMeta `json:",inline"`
}

// New creates a new [Config] with default values.
func New() *Config {
	c := &Config{TypeMeta: v1beta1.NewTypeMeta(Kind)}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Routing == nil {
		c.Routing = routing.NewConfig()
	} else {
		c.Routing.EnsureDefaults()
	}

	if c.Search == nil {
		c.Search = locate.NewConfig()
	} else {
		c.Search.EnsureDefaults()
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Routing != nil {
		err := c.Routing.Validate()
		if err != nil {
			return fmt.Errorf("validate routing config: %w", err)
		}
	}

	return nil
}

// JSONSchemaExtend pins apiVersion and kind in the generated schema.
func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.PinTypeMeta(jss, Kind)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := yaml.Marshal(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// WriteDefault writes the commented default configuration to path, unless a
// file already exists there.
func WriteDefault(path string) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML)
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// GetPath returns the default location of the configuration file.
func GetPath() string {
	return api.ConfigPath("config.yaml")
}
