// Package backup rewrites files while keeping a timestamped copy of the
// previous content next to them.
package backup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// TimestampFormat is the UTC layout embedded in backup names. It sorts
// chronologically and contains no path-unsafe characters.
const TimestampFormat = "20060102T150405Z"

// ErrBackup indicates that the backup copy could not be made. The original
// file has not been modified.
var ErrBackup = errors.New("backup failed")

// Encoder serializes a document.
type Encoder interface {
	Encode(w io.Writer) error
}

// WriteError is returned when writing failed after a backup was made. It
// records whether the original content could be restored.
type WriteError struct {
	Err        error  // Serialization or write error.
	RestoreErr error  // Nil when the original was restored.
	Path       string // File that was being written.
	Backup     string // Backup the file was restored from.
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Restored reports whether the original content was restored.
func (e *WriteError) Restored() bool {
	return e.RestoreErr == nil
}

// Name returns the backup path for path taken at t.
func Name(path string, t time.Time) string {
	return path + ".bak." + t.UTC().Format(TimestampFormat)
}

// WriterOpt configures a [Writer].
type WriterOpt func(*Writer)

// WithClock sets the time source used for backup names.
func WithClock(now func() time.Time) WriterOpt {
	return func(w *Writer) {
		w.now = now
	}
}

// Writer replaces file contents, backing them up first.
type Writer struct {
	now func() time.Time
}

// NewWriter creates a new [Writer].
func NewWriter(opts ...WriterOpt) *Writer {
	w := &Writer{now: time.Now}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write copies path to its backup, then replaces path with the encoded doc.
// It returns the backup path. Backups are never removed.
//
// If encoding or writing fails, the original is restored from the backup
// and a [*WriteError] is returned.
func (w *Writer) Write(path string, doc Encoder) (string, error) {
	bak := Name(path, w.now())

	n, err := copyFile(path, bak, os.O_EXCL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBackup, err)
	}

	slog.Debug("created backup",
		slog.String("path", path),
		slog.String("backup", bak),
		slog.String("size", humanize.Bytes(uint64(n))), //nolint:gosec // G115: n is a file size.
	)

	err = replace(path, doc)
	if err == nil {
		return bak, nil
	}

	werr := &WriteError{Err: err, Path: path, Backup: bak}

	_, werr.RestoreErr = Copy(bak, path)
	if werr.RestoreErr != nil {
		slog.Error("restore from backup",
			slog.String("path", path),
			slog.String("backup", bak),
			slog.Any("error", werr.RestoreErr),
		)
	}

	return bak, werr
}

func replace(path string, doc Encoder) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	b := &bytes.Buffer{}

	err = doc.Encode(b)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	err = os.WriteFile(path, b.Bytes(), info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// Copy copies src to dst, replacing dst, and carries over the permission
// bits and modification time of src. It returns the number of bytes copied.
func Copy(src, dst string) (int64, error) {
	return copyFile(src, dst, os.O_TRUNC)
}

// copyFile is [Copy] with an extra open flag for dst. With [os.O_EXCL] an
// existing dst is left untouched and an error matching os.ErrExist is returned.
func copyFile(src, dst string, flag int) (int64, error) {
	in, err := os.Open(src) //nolint:gosec // G304: Caller-provided path.
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}

	defer func() {
		err := in.Close()
		if err != nil {
			slog.Debug("close source", slog.String("path", src), slog.Any("error", err))
		}
	}()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s: not a regular file", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|flag, info.Mode().Perm()) //nolint:gosec // G304: Caller-provided path.
	if err != nil {
		return 0, fmt.Errorf("open destination: %w", err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close() //nolint:errcheck // Copy error takes precedence.

		return n, fmt.Errorf("copy: %w", err)
	}

	err = out.Close()
	if err != nil {
		return n, fmt.Errorf("close destination: %w", err)
	}

	err = os.Chmod(dst, info.Mode().Perm())
	if err != nil {
		return n, fmt.Errorf("chmod destination: %w", err)
	}

	err = os.Chtimes(dst, info.ModTime(), info.ModTime())
	if err != nil {
		return n, fmt.Errorf("chtimes destination: %w", err)
	}

	return n, nil
}
