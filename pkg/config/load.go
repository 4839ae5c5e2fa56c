// Package config loads the cfdirect configuration file.
//
// The raw YAML is checked against the embedded JSON schema before it is
// decoded, so errors quote the offending source line.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/cfdirect/cfdirect/api"
	"github.com/cfdirect/cfdirect/api/v1beta1/configs"
	"github.com/cfdirect/cfdirect/pkg/yaml"
)

// Option configures [Load] and [Parse].
type Option func(*options)

type options struct {
	colored bool
}

// WithColor highlights the quoted source lines in errors.
func WithColor(colored bool) Option {
	return func(o *options) {
		o.colored = colored
	}
}

// Load reads the configuration file at path. A missing file is not an
// error; the defaults are returned instead.
func Load(path string, opts ...Option) (*configs.Config, error) {
	data, err := api.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no config file, using defaults", slog.String("path", path))

		return configs.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	cfg, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return cfg, nil
}

// Parse validates data against the configuration schema, decodes it over
// the defaults and checks the result.
func Parse(data []byte, opts ...Option) (*configs.Config, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var raw any

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, yaml.Annotate(err, data, o.colored)
	}

	err = configs.DefaultValidator.Validate(raw)
	if err != nil {
		return nil, yaml.Annotate(err, data, o.colored)
	}

	cfg := configs.New()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, yaml.Annotate(err, data, o.colored)
	}

	cfg.EnsureDefaults()

	err = cfg.Validate()
	if err != nil {
		return nil, err //nolint:wrapcheck // Already describes the field.
	}

	return cfg, nil
}
