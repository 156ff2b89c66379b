package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a completion percentage as [████░░░░]  45%.
// The bar is red below a third, yellow below two thirds, green above.
func RenderProgress(pct int, width int) string {
	pct = min(max(pct, 0), 100)
	width = max(width, 2)

	filled := pct * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct < 33:
		style = StyleRed
	case pct < 66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), pct)
}

// SectionMark is the one-cell completion marker used in section lists.
func SectionMark(complete, reachable bool) string {
	switch {
	case complete:
		return StyleGreen.Render("✔")
	case !reachable:
		return StyleDim.Render("⊘")
	default:
		return StyleYellow.Render("○")
	}
}
