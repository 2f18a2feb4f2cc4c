package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// Palette colours.
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorAccent  = lipgloss.Color("#06B6D4") // Cyan
	colorMuted   = lipgloss.Color("#6C7086") // Medium gray
	colorSuccess = lipgloss.Color("#A6E3A1") // Green
	colorWarning = lipgloss.Color("#F9E2AF") // Yellow
	colorError   = lipgloss.Color("#F38BA8") // Red
	colorBorder  = lipgloss.Color("#45475A") // Border gray
)

// styles holds the lipgloss styles for one output stream.
type styles struct {
	renderer *lipgloss.Renderer

	Title   lipgloss.Style
	Heading lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Label   lipgloss.Style
	Border  lipgloss.Style
}

// newStyles creates styles for w. Colour is used only when w is a terminal
// and --no-color is not set.
func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	if noColor || !isTerminal(w) {
		r.SetColorProfile(termenv.Ascii)
	}

	return &styles{
		renderer: r,
		Title:    r.NewStyle().Bold(true).Foreground(colorPrimary),
		Heading:  r.NewStyle().Bold(true).Foreground(colorAccent),
		Muted:    r.NewStyle().Foreground(colorMuted),
		Success:  r.NewStyle().Foreground(colorSuccess),
		Warning:  r.NewStyle().Foreground(colorWarning),
		Error:    r.NewStyle().Foreground(colorError),
		Label:    r.NewStyle().Width(16).Foreground(colorMuted),
		Border:   r.NewStyle().Foreground(colorBorder),
	}
}

// classStyle colours a classification.
func (s *styles) classStyle(c domain.Classification) lipgloss.Style {
	switch c {
	case domain.ClassPersonal:
		return s.Success
	case domain.ClassWork:
		return s.Heading.UnsetBold()
	case domain.ClassDisposable:
		return s.Warning
	default:
		return s.Muted
	}
}

// table returns a bordered table using the palette.
func (s *styles) table(headers ...string) *table.Table {
	header := s.renderer.NewStyle().Bold(true).Padding(0, 1)
	cell := s.renderer.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
