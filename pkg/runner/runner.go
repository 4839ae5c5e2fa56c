// Package runner drives a single pass over the located client
// configurations: read, patch, and write each one in turn.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/lipgloss"

	"github.com/cfdirect/cfdirect/api"
	"github.com/cfdirect/cfdirect/pkg/backup"
	"github.com/cfdirect/cfdirect/pkg/log"
	"github.com/cfdirect/cfdirect/pkg/routing"
)

// ErrNoCandidates is returned by [Runner.Run] when no files were found.
var ErrNoCandidates = errors.New("no candidate config files found")

// Status is the tag printed in front of each per-file report line.
type Status string

const (
	StatusSkip          Status = "SKIP"
	StatusNoChange      Status = "NOCHANGE"
	StatusUpdated       Status = "UPDATED"
	StatusWouldUpdate   Status = "WOULD UPDATE"
	StatusFail          Status = "FAIL"
	StatusRestored      Status = "RESTORED"
	StatusRestoreFailed Status = "FAILED TO RESTORE"
)

// Locator resolves patterns into candidate file paths.
type Locator interface {
	Find(patterns []string) []string
	DefaultPatterns() []string
}

// Patcher ensures the direct rule in a document.
type Patcher interface {
	Ensure(doc *routing.Document) (routing.Result, error)
}

// Writer replaces a file with an encoded document, keeping a backup.
type Writer interface {
	Write(path string, doc backup.Encoder) (string, error)
}

// Summary counts the outcome of each processed file.
type Summary struct {
	Candidates int
	Updated    int
	Unchanged  int
	Skipped    int
	Failed     int
	Restored   int
}

// LogValue implements [slog.LogValuer].
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("candidates", s.Candidates),
		slog.Int("updated", s.Updated),
		slog.Int("unchanged", s.Unchanged),
		slog.Int("skipped", s.Skipped),
		slog.Int("failed", s.Failed),
		slog.Int("restored", s.Restored),
	)
}

// Opt configures a [Runner].
type Opt func(*Runner)

// WithOutput sets where report lines are printed. Defaults to stdout.
func WithOutput(w io.Writer) Opt {
	return func(r *Runner) {
		r.out = w
	}
}

// WithDryRun reports the changes that would be made without writing them.
func WithDryRun(dryRun bool) Opt {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

// WithWriter replaces the default [backup.Writer].
func WithWriter(w Writer) Opt {
	return func(r *Runner) {
		r.writer = w
	}
}

// Runner processes candidate files sequentially.
type Runner struct {
	out     io.Writer
	locator Locator
	patcher Patcher
	writer  Writer
	styles  styles
	dryRun  bool
}

// New creates a new [Runner].
func New(locator Locator, patcher Patcher, opts ...Opt) *Runner {
	r := &Runner{
		out:     os.Stdout,
		locator: locator,
		patcher: patcher,
		writer:  backup.NewWriter(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.styles = newStyles(lipgloss.NewRenderer(r.out))

	return r
}

// Run processes every file matched by patterns, or by the locator's default
// patterns when none are given. Per-file failures are reported and counted
// but do not make Run fail; only an empty candidate list does.
func (r *Runner) Run(ctx context.Context, patterns []string) (*Summary, error) {
	logger := log.FromContext(ctx)

	files := r.locator.Find(patterns)
	if len(files) == 0 {
		r.printNoCandidates()

		return &Summary{}, ErrNoCandidates
	}

	logger.Debug("found candidate files", slog.Int("count", len(files)))

	s := &Summary{Candidates: len(files)}
	for _, path := range files {
		r.ProcessFile(ctx, path, s)
	}

	logger.Info("done", slog.Attr{Key: "summary", Value: s.LogValue()})

	return s, nil
}

// ProcessFile reads, patches, and writes a single file, printing one or
// more report lines and updating s.
func (r *Runner) ProcessFile(ctx context.Context, path string, s *Summary) {
	logger := log.FromContext(ctx).With(slog.String("path", path))

	data, doc, err := readDocument(path)
	if err != nil {
		r.report(StatusSkip, "%s: failed to read JSON: %v", path, err)
		s.Skipped++

		return
	}

	r.patch(logger, path, data, doc, s)
}

func readDocument(path string) ([]byte, *routing.Document, error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // Already wrapped.
	}

	doc, err := routing.Parse(data)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // Already wrapped.
	}

	return data, doc, nil
}

func (r *Runner) patch(logger *slog.Logger, path string, data []byte, doc *routing.Document, s *Summary) {
	res, err := r.patcher.Ensure(doc)
	if err != nil {
		r.report(StatusSkip, "%s: %v", path, err)
		s.Skipped++

		return
	}

	if !res.Changed() {
		r.report(StatusNoChange, "%s", path)
		s.Unchanged++

		return
	}

	logger.Debug("patched routing",
		slog.String("action", res.Action.String()),
		slog.Int("rule", res.RuleIndex),
		slog.Int("added", len(res.Added)),
	)

	if r.dryRun {
		err = r.preview(path, data, doc)
		if err != nil {
			r.report(StatusFail, "%s: %v", path, err)
			s.Failed++

			return
		}

		s.Updated++

		return
	}

	bak, err := r.writer.Write(path, doc)
	if err == nil {
		r.report(StatusUpdated, "%s (backup: %s)", path, bak)
		s.Updated++

		return
	}

	s.Failed++

	var werr *backup.WriteError
	if !errors.As(err, &werr) {
		r.report(StatusFail, "%s: failed to back up: %v", path, err)

		return
	}

	r.report(StatusFail, "%s: failed to write: %v", path, werr.Err)

	if werr.Restored() {
		r.report(StatusRestored, "%s from %s", path, werr.Backup)
		s.Restored++

		return
	}

	r.report(StatusRestoreFailed, "%s: %v", path, werr.RestoreErr)
}

// preview prints the unified diff between the current and patched content.
func (r *Runner) preview(path string, data []byte, doc *routing.Document) error {
	b, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}

	r.report(StatusWouldUpdate, "%s", path)

	diff := udiff.Unified("a/"+path, "b/"+path, string(data), string(b))
	for line := range strings.SplitSeq(strings.TrimSuffix(diff, "\n"), "\n") {
		fmt.Fprintln(r.out, r.styles.diffLine(line))
	}

	return nil
}

func (r *Runner) report(status Status, format string, args ...any) {
	fmt.Fprintln(r.out, r.styles.status(status)+" "+fmt.Sprintf(format, args...))
}

func (r *Runner) printNoCandidates() {
	fmt.Fprintln(r.out, "No candidate config files found.")

	example := "'<pattern>'"
	if defaults := r.locator.DefaultPatterns(); len(defaults) > 0 {
		example = "'" + defaults[0] + "'"
	}

	fmt.Fprintln(r.out, "You can pass explicit paths to check, e.g.: cfdirect "+example)
}
