package cli

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cfdirect/cfdirect/pkg/runner"
)

// usageError marks errors caused by the command line itself.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func flagError(_ *cobra.Command, err error) error {
	return &usageError{err: err}
}

// ErrorHandler renders command errors for [fang.WithErrorHandler]. Flag
// errors get a pointer to --help. [runner.ErrNoCandidates] prints nothing,
// since the runner has already explained what to do.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	if errors.Is(err, runner.ErrNoCandidates) {
		return
	}

	var b strings.Builder

	b.WriteString(styles.ErrorHeader.String() + "\n")
	b.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(err.Error()) + "\n\n")

	var ue *usageError
	if errors.As(err, &ue) {
		hint := lipgloss.JoinHorizontal(lipgloss.Left,
			styles.ErrorText.UnsetWidth().Render("Try"),
			styles.Program.Flag.Render("--help"),
			styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render("for usage."),
		)
		b.WriteString(hint + "\n\n")
	}

	_, _ = io.WriteString(w, b.String())
}
