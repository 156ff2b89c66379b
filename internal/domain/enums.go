package domain

type DraftStatus string

const (
	DraftInProgress DraftStatus = "draft"
	DraftSubmitted  DraftStatus = "submitted"
)

// Loan choices as the applicant selects them. The empty value means no
// selection has been made yet.
const (
	LoanYes = "Yes"
	LoanNo  = "No"
)

// EntityKind names a list-valued sub-entity that is persisted row by row.
type EntityKind string

const (
	EntityCollaborator   EntityKind = "collaborator"
	EntityShareHolder    EntityKind = "shareholder"
	EntitySubShareHolder EntityKind = "sub_shareholder"
	EntityRDStaff        EntityKind = "rdstaff"
	EntityEquipment      EntityKind = "equipment"
	EntityTeamMember     EntityKind = "team_member"
)

// Section returns the section that owns rows of this kind.
func (k EntityKind) Section() SectionID {
	if k == EntityTeamMember {
		return SectionProposal
	}
	return SectionConsortium
}

func (k EntityKind) Valid() bool {
	switch k {
	case EntityCollaborator, EntityShareHolder, EntitySubShareHolder,
		EntityRDStaff, EntityEquipment, EntityTeamMember:
		return true
	}
	return false
}

// AllEntityKinds returns every kind in save order.
func AllEntityKinds() []EntityKind {
	return []EntityKind{
		EntityCollaborator,
		EntityShareHolder,
		EntitySubShareHolder,
		EntityRDStaff,
		EntityEquipment,
		EntityTeamMember,
	}
}
