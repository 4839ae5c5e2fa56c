package api_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfdirect/cfdirect/api"
)

//nolint:paralleltest // We need to set environment variables, so run tests sequentially.
func TestConfigPath(t *testing.T) {
	tcs := map[string]struct {
		env  map[string]string
		want string
	}{
		"XDG_CONFIG_HOME set": {
			env:  map[string]string{"XDG_CONFIG_HOME": "/custom/config"},
			want: "/custom/config/cfdirect/config.yaml",
		},
		"XDG_CONFIG_HOME empty": {
			env:  map[string]string{"XDG_CONFIG_HOME": "", "HOME": "/test/home"},
			want: "/test/home/.config/cfdirect/config.yaml",
		},
		"no home": {
			env:  map[string]string{"XDG_CONFIG_HOME": "", "HOME": ""},
			want: filepath.Join(os.TempDir(), "cfdirect", "config.yaml"), //nolint:usetesting // Needs to equal host.
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			if runtime.GOOS == "windows" {
				t.Skip("home directory comes from USERPROFILE")
			}

			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			assert.Equal(t, tc.want, api.ConfigPath("config.yaml"))
		})
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setupFile func(t *testing.T) string
		wantIs    error
		errMsg    string
	}{
		"valid file": {
			setupFile: func(t *testing.T) string {
				t.Helper()

				path := filepath.Join(t.TempDir(), "config.json")
				err := os.WriteFile(path, []byte(`{"log": {}}`), 0o600)
				require.NoError(t, err)

				return path
			},
		},
		"missing file": {
			setupFile: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "missing.json")
			},
			wantIs: fs.ErrNotExist,
			errMsg: "missing.json",
		},
		"directory": {
			setupFile: func(t *testing.T) string {
				t.Helper()

				return t.TempDir()
			},
			errMsg: "path is a directory",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := api.ReadFile(tc.setupFile(t))
			if tc.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				assert.Nil(t, got)

				if tc.wantIs != nil {
					require.ErrorIs(t, err, tc.wantIs)
				}

				return
			}

			require.NoError(t, err)
			assert.JSONEq(t, `{"log": {}}`, string(got))
		})
	}
}

func TestReadFile_Device(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("no device files")
	}

	_, err := api.ReadFile(os.DevNull)
	require.ErrorIs(t, err, api.ErrNotRegular)
}

func TestWriteDefaultFile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setupPath   func(t *testing.T) string
		errMsg      string
		wantContent string
	}{
		"new file": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "config.yaml")
			},
			wantContent: "default content",
		},
		"existing file is kept": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				path := filepath.Join(t.TempDir(), "config.yaml")
				err := os.WriteFile(path, []byte("existing"), 0o600)
				require.NoError(t, err)

				return path
			},
			wantContent: "existing",
		},
		"creates parent directories": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "nested", "deep", "config.yaml")
			},
			wantContent: "default content",
		},
		"path is directory": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return t.TempDir()
			},
			errMsg: "path is a directory",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := tc.setupPath(t)

			err := api.WriteDefaultFile(path, []byte("default content"))
			if tc.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)

				return
			}

			require.NoError(t, err)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.wantContent, string(got))
		})
	}
}
