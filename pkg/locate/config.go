package locate

// Config controls where configuration files are searched for.
type Config struct {
	// Patterns replace the default search pattern when no paths are given on
	// the command line. "~" and "**" are supported.
	Patterns []string `json:"patterns,omitempty" jsonschema:"title=Search Patterns"`
}

// NewConfig returns an empty [Config], which uses [DefaultPattern].
func NewConfig() *Config {
	return &Config{}
}

// EnsureDefaults is a no-op; an empty pattern list means the built-in default.
func (c *Config) EnsureDefaults() {}

// Locator creates a [Locator] from the configuration.
func (c *Config) Locator() *Locator {
	return New(WithDefaultPatterns(c.Patterns...))
}
