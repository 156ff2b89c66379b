package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded border with an optional title.
func RenderBox(title string, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title == "" {
		return box.Render(content)
	}
	return box.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
}

// HumanDate prints Today, Yesterday or "Jan 2, 2006" relative to now.
func HumanDate(t, now time.Time) string {
	if t.IsZero() {
		return "--"
	}
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	y3, m3, d3 := now.AddDate(0, 0, -1).Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp prints short relative ages for the last day and falls
// back to HumanDate.
func HumanTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return "--"
	}
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return HumanDate(t, now)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t, now)
	}
}

// TruncID shortens a uuid to its first block.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Rupees formats an amount with Indian digit grouping, e.g. ₹12,34,567.50.
func Rupees(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := fmt.Sprintf("%.2f", v)
	intPart, frac := whole[:len(whole)-3], whole[len(whole)-2:]

	var groups []string
	if len(intPart) > 3 {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		groups = append(groups, tail)
	} else {
		groups = []string{intPart}
	}

	out := sign + "₹" + strings.Join(groups, ",")
	if frac != "00" {
		out += "." + frac
	}
	return out
}

// OrDash returns "--" for an empty string.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}
