package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

// SectionID is the ordinal position of a wizard section.
type SectionID int

const (
	SectionBasic SectionID = iota
	SectionConsortium
	SectionProposal
	SectionFund
	SectionBudget
	SectionFinance
	SectionTimeline
	SectionIPR
	SectionProjectDocs
)

// SectionCount is the number of wizard sections.
const SectionCount = 9

var sectionNames = [SectionCount]string{
	"Basic Details",
	"Consortium Partner Details",
	"Proposal Details",
	"Fund Details",
	"Budget Estimate",
	"Finance Details",
	"Objective-wise Timelines",
	"IPR Details",
	"Project Details",
}

// Short aliases accepted on the command line in addition to the slug.
var sectionAliases = map[string]SectionID{
	"basic":      SectionBasic,
	"consortium": SectionConsortium,
	"proposal":   SectionProposal,
	"fund":       SectionFund,
	"budget":     SectionBudget,
	"finance":    SectionFinance,
	"timeline":   SectionTimeline,
	"timelines":  SectionTimeline,
	"ipr":        SectionIPR,
	"project":    SectionProjectDocs,
	"documents":  SectionProjectDocs,
}

// AllSections returns every section in wizard order.
func AllSections() []SectionID {
	out := make([]SectionID, SectionCount)
	for i := range out {
		out[i] = SectionID(i)
	}
	return out
}

// Valid reports whether id names a known section.
func (id SectionID) Valid() bool {
	return id >= 0 && int(id) < SectionCount
}

// Name returns the display name, e.g. "Budget Estimate".
func (id SectionID) Name() string {
	if !id.Valid() {
		return fmt.Sprintf("Section(%d)", int(id))
	}
	return sectionNames[id]
}

// Key returns the stable slug used in storage and on the command line.
func (id SectionID) Key() string {
	if !id.Valid() {
		return ""
	}
	return slug.Make(sectionNames[id])
}

func (id SectionID) String() string {
	return id.Name()
}

// ParseSectionID resolves a section from an ordinal, a slug, an alias or a
// display name.
func ParseSectionID(s string) (SectionID, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		id := SectionID(n)
		if !id.Valid() {
			return 0, fmt.Errorf("section ordinal %d out of range 0-%d", n, SectionCount-1)
		}
		return id, nil
	}
	key := slug.Make(s)
	if id, ok := sectionAliases[key]; ok {
		return id, nil
	}
	for _, id := range AllSections() {
		if id.Key() == key {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown section %q", s)
}
