package domain

import (
	"strings"
	"time"
)

// MilestoneSlots is the fixed number of timeline entries.
const MilestoneSlots = 6

// DateLayout is the calendar date format used for milestone dates.
const DateLayout = "2006-01-02"

type ObjectiveTimelines struct {
	Milestones [MilestoneSlots]MilestoneSlot `yaml:"milestones"`
}

type MilestoneSlot struct {
	ID                    RowID   `yaml:"id"`
	ScopeOfWork           string  `yaml:"scope_of_work"`
	Description           string  `yaml:"description"`
	Activities            string  `yaml:"activities"`
	TimeRequiredMonths    int     `yaml:"time_required_months"`
	TTDFGrant             float64 `yaml:"ttdf_grant"`
	ApplicantContribution float64 `yaml:"applicant_contribution"`
	StartDate             string  `yaml:"start_date"`
	EndDate               string  `yaml:"end_date"`
}

// Filled reports whether the slot carries user input. Empty slots are
// placeholders.
func (m MilestoneSlot) Filled() bool {
	return strings.TrimSpace(m.ScopeOfWork) != ""
}

// Dated reports whether both start and end dates are set.
func (m MilestoneSlot) Dated() bool {
	return strings.TrimSpace(m.StartDate) != "" && strings.TrimSpace(m.EndDate) != ""
}

// FilledSlots returns the filled milestones in slot order.
func (t *ObjectiveTimelines) FilledSlots() []MilestoneSlot {
	var out []MilestoneSlot
	for _, m := range t.Milestones {
		if m.Filled() {
			out = append(out, m)
		}
	}
	return out
}

// AllocatedGrant sums the TTDF grant across filled milestones.
func (t *ObjectiveTimelines) AllocatedGrant() float64 {
	var sum float64
	for _, m := range t.FilledSlots() {
		sum += m.TTDFGrant
	}
	return sum
}

// EstimateEndDate returns start plus 30 days per month of work, or "" if
// start is not a valid date.
func EstimateEndDate(start string, months int) string {
	t, err := time.Parse(DateLayout, start)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 30*months).Format(DateLayout)
}
