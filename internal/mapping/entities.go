package mapping

import (
	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

// EntityRow is one sub-entity row ready to persist. Assign writes the id
// returned by an add back into the aggregate.
type EntityRow struct {
	Kind   domain.EntityKind
	ID     domain.RowID
	Label  string
	Fields app.Record
	Files  []app.FileUpload
	Assign func(id int64)
}

// EntityRows lists the rows a section owns, skipping rows whose naming
// field is blank.
func EntityRows(section domain.SectionID, s *domain.Sections) []EntityRow {
	var rows []EntityRow
	add := func(kind domain.EntityKind, id *domain.RowID, label string, fields app.Record, files []app.FileUpload) {
		if domain.Blank(label) {
			return
		}
		rows = append(rows, EntityRow{
			Kind:   kind,
			ID:     *id,
			Label:  label,
			Fields: fields,
			Files:  files,
			Assign: func(v int64) { *id = domain.RowID(v) },
		})
	}

	switch section {
	case domain.SectionConsortium:
		c := &s.Consortium
		for i := range c.Collaborators {
			row := &c.Collaborators[i]
			fields, files := Emit(row, CollaboratorRules)
			if row.ApplicantType == "" {
				fields["collaborator_type"] = "principalApplicant"
			}
			add(domain.EntityCollaborator, &row.ID, row.ContactPersonName, fields, files)
		}
		for i := range c.ShareHolders {
			row := &c.ShareHolders[i]
			fields, files := Emit(row, ShareHolderRules)
			add(domain.EntityShareHolder, &row.ID, row.ShareHolderName, fields, files)
		}
		for i := range c.RDStaff {
			row := &c.RDStaff[i]
			fields, files := Emit(row, RDStaffRules)
			add(domain.EntityRDStaff, &row.ID, row.Name, fields, files)
		}
		for i := range c.SubShareHolders {
			row := &c.SubShareHolders[i]
			fields, files := Emit(row, SubShareHolderRules)
			add(domain.EntitySubShareHolder, &row.ID, row.ShareHolderName, fields, files)
		}
		for i := range c.Equipments {
			row := &c.Equipments[i]
			fields, _ := Emit(row, EquipmentRules)
			add(domain.EntityEquipment, &row.ID, row.Item, fields, nil)
		}

	case domain.SectionProposal:
		for i := range s.Proposal.TeamMembers {
			row := &s.Proposal.TeamMembers[i]
			fields, files := Emit(row, TeamMemberRules)
			add(domain.EntityTeamMember, &row.ID, row.Name, fields, files)
		}
	}
	return rows
}
