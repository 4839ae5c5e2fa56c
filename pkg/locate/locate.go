// Package locate finds candidate client configuration files.
package locate

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoHome indicates that the user home directory could not be determined.
var ErrNoHome = errors.New("cannot determine home directory")

// Locator expands path patterns into file paths.
type Locator struct {
	defaults []string
}

// Opt configures a [Locator].
type Opt func(*Locator)

// WithDefaultPatterns replaces the patterns used when none are given to
// [Locator.Find].
func WithDefaultPatterns(patterns ...string) Opt {
	return func(l *Locator) {
		l.defaults = patterns
	}
}

// New creates a [Locator] that falls back to [DefaultPattern].
func New(opts ...Opt) *Locator {
	l := &Locator{}
	for _, opt := range opts {
		opt(l)
	}

	if len(l.defaults) == 0 {
		pattern, err := DefaultPattern()
		if err != nil {
			slog.Warn("no default search pattern", slog.Any("error", err))
		} else {
			l.defaults = []string{pattern}
		}
	}

	return l
}

// DefaultPatterns returns the patterns used when [Locator.Find] is called
// without any.
func (l *Locator) DefaultPatterns() []string {
	return l.defaults
}

// Find expands each pattern and concatenates the matches in input order.
// When no patterns are given, the default patterns are used. Duplicates are
// kept. A pattern that cannot be expanded contributes no paths.
func (l *Locator) Find(patterns []string) []string {
	if len(patterns) == 0 {
		patterns = l.defaults
	}

	var paths []string

	for _, pattern := range patterns {
		matches, err := Glob(pattern)
		if err != nil {
			slog.Warn("skip pattern",
				slog.String("pattern", pattern),
				slog.Any("error", err),
			)

			continue
		}

		slog.Debug("expanded pattern",
			slog.String("pattern", pattern),
			slog.Int("matches", len(matches)),
		)

		paths = append(paths, matches...)
	}

	return paths
}

// Glob expands a leading ~ and then matches the pattern against the
// filesystem. "**" matches any number of directories.
func Glob(pattern string) ([]string, error) {
	expanded, err := ExpandHome(pattern)
	if err != nil {
		return nil, err
	}

	matches, err := doublestar.FilepathGlob(expanded)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", expanded, err)
	}

	return matches, nil
}

// ExpandHome replaces a leading "~" with the user home directory.
// Other patterns, including "~user" forms, are returned unchanged.
func ExpandHome(pattern string) (string, error) {
	if pattern != "~" && !strings.HasPrefix(pattern, "~/") && !strings.HasPrefix(pattern, `~\`) {
		return pattern, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoHome, err)
	}
	if home == "" {
		return "", ErrNoHome
	}

	return filepath.Join(home, pattern[1:]), nil
}

// DefaultRoot returns the platform directory that holds client
// configurations: ~/Library/Group Containers on macOS, the user config
// directory elsewhere.
func DefaultRoot() (string, error) {
	if runtime.GOOS == "darwin" {
		return ExpandHome("~/Library/Group Containers")
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}

	return dir, nil
}

// DefaultPattern matches every *.json file inside any "Configs" directory
// below [DefaultRoot].
func DefaultPattern() (string, error) {
	root, err := DefaultRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, "**", "Configs", "*.json"), nil
}
