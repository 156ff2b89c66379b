package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DraftStatusPill renders a draft's lifecycle state.
func DraftStatusPill(status domain.DraftStatus) string {
	switch status {
	case domain.DraftInProgress:
		return StyleYellow.Render("○ Draft")
	case domain.DraftSubmitted:
		return StyleGreen.Render("✔ Submitted")
	default:
		return StyleDim.Render(string(status))
	}
}

// ProposalStatusStyle colors a portal proposal status by outcome.
func ProposalStatusStyle(status string) lipgloss.Style {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "approved"), strings.Contains(s, "completed"):
		return StyleGreen
	case strings.Contains(s, "not shortlisted"), strings.Contains(s, "rejected"):
		return StyleRed
	case strings.Contains(s, "unknown"), s == "":
		return StyleDim
	default:
		return StyleYellow
	}
}

// Header renders an upper-cased title over a dim rule.
func Header(text string) string {
	upper := strings.ToUpper(text)
	rule := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(rule))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
