// Package ranges holds the Cloudflare address ranges that are routed around
// the proxy tunnel.
package ranges

import (
	"errors"
	"fmt"
	"net/netip"
	"slices"
)

// ErrInvalidRange indicates that a value is not a CIDR prefix.
var ErrInvalidRange = errors.New("invalid address range")

// cloudflare is the canonical order. Patched rules receive missing entries
// in exactly this order.
var cloudflare = []string{
	"198.41.128.0/17",
	"173.245.48.0/20",
	"103.21.244.0/22",
	"103.22.200.0/22",
	"103.31.4.0/22",
	"141.101.64.0/18",
	"108.162.192.0/18",
	"190.93.240.0/20",
	"188.114.96.0/20",
	"197.234.240.0/22",
	"162.158.0.0/15",
	"104.16.0.0/12",
	"172.64.0.0/13",
	"131.0.72.0/22",
}

// Cloudflare returns a copy of the published Cloudflare IPv4 ranges in
// canonical order.
func Cloudflare() []string {
	return slices.Clone(cloudflare)
}

// Validate checks that every entry is a CIDR prefix.
func Validate(rs []string) error {
	for i, r := range rs {
		_, err := netip.ParsePrefix(r)
		if err != nil {
			return fmt.Errorf("%w at index %d: %w", ErrInvalidRange, i, err)
		}
	}

	return nil
}

// Missing returns the entries of want that are absent from have, in the
// order of want. Membership is exact string equality.
func Missing(want, have []string) []string {
	var missing []string

	for _, w := range want {
		if !slices.Contains(have, w) {
			missing = append(missing, w)
		}
	}

	return missing
}
