package runner

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	ok      lipgloss.Style
	neutral lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	added   lipgloss.Style
	removed lipgloss.Style
	hunk    lipgloss.Style
}

// newStyles binds the styles to r, so output that is not a terminal is
// left unstyled.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		ok:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		neutral: r.NewStyle().Faint(true),
		warn:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		fail:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		added:   r.NewStyle().Foreground(lipgloss.Color("2")),
		removed: r.NewStyle().Foreground(lipgloss.Color("1")),
		hunk:    r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

func (s styles) status(status Status) string {
	var style lipgloss.Style

	switch status {
	case StatusUpdated, StatusRestored:
		style = s.ok
	case StatusNoChange:
		style = s.neutral
	case StatusSkip, StatusWouldUpdate:
		style = s.warn
	case StatusFail, StatusRestoreFailed:
		style = s.fail
	default:
		return string(status)
	}

	return style.Render(string(status))
}

func (s styles) diffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return line
	case strings.HasPrefix(line, "+"):
		return s.added.Render(line)
	case strings.HasPrefix(line, "-"):
		return s.removed.Render(line)
	case strings.HasPrefix(line, "@@"):
		return s.hunk.Render(line)
	}

	return line
}
