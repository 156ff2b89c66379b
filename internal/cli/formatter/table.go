package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = 2

// RenderTable aligns rows under styled headers. Widths are measured on
// visible characters so pre-styled cells line up.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	widths := columnWidths(headers, rows)

	var b strings.Builder
	writeRow(&b, headers, widths, StyleHeader.Render)

	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("─", w)
	}
	writeRow(&b, rules, widths, StyleDim.Render)

	for _, row := range rows {
		writeRow(&b, row, widths, nil)
	}
	return b.String()
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	measure := func(cells []string) {
		for i := 0; i < len(widths) && i < len(cells); i++ {
			widths[i] = max(widths[i], lipgloss.Width(cells[i]))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}
	return widths
}

func writeRow(b *strings.Builder, cells []string, widths []int, style func(...string) string) {
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := max(w-lipgloss.Width(cell), 0)
		if style != nil {
			cell = style(cell)
		}
		b.WriteString(cell)
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", pad+columnGap))
		}
	}
	b.WriteString("\n")
}
