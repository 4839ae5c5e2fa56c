// Package api holds the versioned cfdirect configuration types and the file
// helpers they share.
package api

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNotRegular is returned by [ReadFile] for devices, sockets and pipes.
var ErrNotRegular = errors.New("not a regular file")

// ConfigPath returns the path of name inside cfdirect's configuration
// directory: $XDG_CONFIG_HOME/cfdirect, else ~/.config/cfdirect, else a
// directory under the system temp dir.
func ConfigPath(name string) string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "cfdirect", name)
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "cfdirect", name)
	}

	path := filepath.Join(os.TempDir(), "cfdirect", name)
	slog.Warn("no home directory, keeping configuration in temp dir",
		slog.String("path", path),
		slog.Any("error", err),
	)

	return path
}

// ReadFile reads a regular file. Directories and special files are rejected
// without being opened.
func ReadFile(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Names the path already.
	}

	switch {
	case fi.IsDir():
		return nil, fmt.Errorf("%s: path is a directory", path)
	case !fi.Mode().IsRegular():
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Paths are chosen by the user.
	if err != nil {
		return nil, err //nolint:wrapcheck // Names the path already.
	}

	return data, nil
}

// WriteDefaultFile writes data to path, creating parent directories. An
// existing file is left alone.
func WriteDefaultFile(path string, data []byte) error {
	fi, err := os.Stat(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return err //nolint:wrapcheck // Names the path already.
	case fi.IsDir():
		return fmt.Errorf("%s: path is a directory", path)
	default:
		slog.Info("file already exists, not overwriting", slog.String("path", path))

		return nil
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	slog.Info("wrote default configuration", slog.String("path", path))

	return nil
}
