package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/grantdesk/internal/domain"
)

const wizardBarWidth = 20

// SectionLine is one row of the wizard overview.
type SectionLine struct {
	ID        domain.SectionID
	Complete  bool
	Reachable bool
	Optional  bool
	Current   bool
	Problems  []string
}

// WizardStatus is everything FormatWizardStatus renders.
type WizardStatus struct {
	SubmissionID string
	Status       domain.DraftStatus
	Percentage   int
	CanSubmit    bool
	Sections     []SectionLine
}

func FormatWizardStatus(s WizardStatus) string {
	var b strings.Builder

	id := Dim("not saved yet")
	if s.SubmissionID != "" {
		id = s.SubmissionID
	}
	fmt.Fprintf(&b, "%s  %s  %s\n\n", Bold("Application"), id, DraftStatusPill(s.Status))
	fmt.Fprintf(&b, "%s\n\n", RenderProgress(s.Percentage, wizardBarWidth))

	for _, line := range s.Sections {
		cursor := "  "
		name := line.ID.Name()
		if line.Current {
			cursor = StyleHeader.Render("▸ ")
			name = Bold(name)
		}
		tag := ""
		if line.Optional {
			tag = Dim(" (optional)")
		}
		fmt.Fprintf(&b, "%s%s %d. %s%s\n", cursor, SectionMark(line.Complete, line.Reachable), int(line.ID)+1, name, tag)
		if line.Current && !line.Complete {
			for _, p := range line.Problems {
				fmt.Fprintf(&b, "       %s\n", StyleYellow.Render("· "+p))
			}
		}
	}

	if s.CanSubmit {
		fmt.Fprintf(&b, "\n%s\n", StyleGreen.Render("Ready to submit."))
	}
	return RenderBox("Application", b.String())
}

// FormatSectionProblems lists what keeps a section from completing.
func FormatSectionProblems(id domain.SectionID, problems []string) string {
	if len(problems) == 0 {
		return StyleGreen.Render(fmt.Sprintf("✔ %s is complete", id.Name()))
	}
	var b strings.Builder
	b.WriteString(StyleYellow.Render(fmt.Sprintf("%s is incomplete:", id.Name())))
	for _, p := range problems {
		b.WriteString("\n  · " + p)
	}
	return b.String()
}

// FormatWarnings renders non-fatal save problems one per line.
func FormatWarnings(warnings []string) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(StyleYellow.Render("  WARNING: "+w) + "\n")
	}
	return b.String()
}
