package routing

import (
	"errors"
	"fmt"

	"github.com/cfdirect/cfdirect/pkg/ranges"
)

// Config controls which rule is patched and what it must contain.
type Config struct {
	// OutboundTag identifies the direct rule.
	OutboundTag string `json:"outboundTag,omitempty" jsonschema:"title=Outbound Tag,default=direct"`
	// DomainStrategy is set on routing sections created from scratch.
	DomainStrategy string `json:"domainStrategy,omitempty" jsonschema:"title=Domain Strategy,default=IPIfNonMatch"`
	// Ranges lists the CIDR ranges routed to the direct outbound.
	// Defaults to the published Cloudflare ranges.
	Ranges []string `json:"ranges,omitempty" jsonschema:"title=Address Ranges"`
}

// NewConfig returns a [Config] with default values.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults fills empty fields with their default values.
func (c *Config) EnsureDefaults() {
	if c.OutboundTag == "" {
		c.OutboundTag = DefaultOutboundTag
	}
	if c.DomainStrategy == "" {
		c.DomainStrategy = DefaultDomainStrategy
	}
	if len(c.Ranges) == 0 {
		c.Ranges = ranges.Cloudflare()
	}
}

// Validate checks the configured ranges.
func (c *Config) Validate() error {
	if c.OutboundTag == "" {
		return errors.New("outbound tag must not be empty")
	}

	err := ranges.Validate(c.Ranges)
	if err != nil {
		return fmt.Errorf("ranges: %w", err)
	}

	return nil
}

// Patcher creates a [Patcher] from the configuration.
func (c *Config) Patcher() *Patcher {
	return NewPatcher(
		WithRanges(c.Ranges),
		WithOutboundTag(c.OutboundTag),
		WithDomainStrategy(c.DomainStrategy),
	)
}
