package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/fang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfdirect/cfdirect/internal/cli"
	"github.com/cfdirect/cfdirect/pkg/runner"
)

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err       error
		want      string
		wantUsage bool
	}{
		"plain error": {
			err:  errors.New("invalid config"),
			want: "invalid config",
		},
		"error that only looks like a usage error": {
			err:  errors.New("unknown flag: --nope"),
			want: "unknown flag: --nope",
		},
		"no candidates": {
			err: fmt.Errorf("run: %w", runner.ErrNoCandidates),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			cli.ErrorHandler(buf, fang.Styles{}, tc.err)

			if tc.want == "" {
				assert.Empty(t, buf.String())

				return
			}

			assert.Contains(t, buf.String(), tc.want)

			if tc.wantUsage {
				assert.Contains(t, buf.String(), "--help")
			} else {
				assert.NotContains(t, buf.String(), "--help")
			}
		})
	}
}

//nolint:paralleltest // Sets environment variables.
func TestErrorHandler_FlagError(t *testing.T) {
	tcs := map[string]struct {
		want string
		args []string
	}{
		"unknown flag": {
			args: []string{"--nope"},
			want: "unknown flag: --nope",
		},
		"unknown flag on run": {
			args: []string{"run", "--nope"},
			want: "unknown flag: --nope",
		},
		"bad bool value": {
			args: []string{"--dry-run=maybe"},
			want: "invalid argument",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)

			buf := &bytes.Buffer{}
			cli.ErrorHandler(buf, fang.Styles{}, err)

			assert.Contains(t, buf.String(), tc.want)
			assert.Contains(t, buf.String(), "--help")
		})
	}
}
