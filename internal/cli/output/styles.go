package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by text output. Without a TTY every
// style renders plain text.
type Styles struct {
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Code    lipgloss.Style
}

var (
	successColor = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}
	warningColor = lipgloss.AdaptiveColor{Light: "#CA8A04", Dark: "#FACC15"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	accentColor  = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
)

func newStyles(r *lipgloss.Renderer, styled bool) *Styles {
	if !styled {
		plain := r.NewStyle()
		return &Styles{
			Header:  plain,
			Bold:    plain,
			Muted:   plain,
			Success: plain,
			Warning: plain,
			Error:   plain,
			Code:    plain,
		}
	}
	return &Styles{
		Header:  r.NewStyle().Bold(true).Foreground(accentColor),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(mutedColor),
		Success: r.NewStyle().Foreground(successColor),
		Warning: r.NewStyle().Foreground(warningColor),
		Error:   r.NewStyle().Bold(true).Foreground(errorColor),
		Code:    r.NewStyle().Foreground(accentColor),
	}
}
