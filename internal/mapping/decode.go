package mapping

import (
	"strings"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

// Decode maps a merged wire record of every section into a fresh
// aggregate. Every missing field takes its zero value.
func Decode(rec app.Record, preview Previewer) (*domain.Sections, domain.DraftStatus) {
	if rec == nil {
		rec = app.Record{}
	}
	s := domain.NewSections()

	Apply(&s.Basic, rec, preview, BasicRules)
	s.Consortium = DecodeConsortium(rec, preview)
	s.Proposal = DecodeProposal(rec, preview)
	s.Fund = DecodeFund(rec, preview)

	s.Budget = DecodeBudget(rec)

	Apply(&s.Finance, rec, preview, FinanceRules)
	s.Finance.ContributionRows = rec.Maps("contribution_rows")
	s.Finance.FundRows = rec.Maps("fund_rows")

	s.Timeline = DecodeTimeline(rec)
	s.IPR = DecodeIPR(rec, preview)
	Apply(&s.Documents, rec, preview, DocumentRules)

	status := domain.DraftInProgress
	if domain.DraftStatus(rec.String("status")) == domain.DraftSubmitted {
		status = domain.DraftSubmitted
	}
	return s, status
}

func DecodeConsortium(rec app.Record, preview Previewer) domain.Consortium {
	c := domain.Consortium{
		TTDFAppliedBefore: rec.String("ttdf_applied_before", "appliedBefore"),
	}
	for _, r := range rec.Records("collaborators") {
		row := collaborator{ID: domain.RowID(r.ID("id"))}
		Apply(&row, r, preview, CollaboratorRules)
		c.Collaborators = append(c.Collaborators, row)
	}
	for _, r := range rec.Records("shareholders") {
		row := shareHolder{ID: domain.RowID(r.ID("id"))}
		Apply(&row, r, preview, ShareHolderRules)
		c.ShareHolders = append(c.ShareHolders, row)
	}
	for _, r := range rec.Records("sub_shareholders") {
		row := subHolder{}
		row.ID = domain.RowID(r.ID("id"))
		Apply(&row, r, preview, SubShareHolderRules)
		c.SubShareHolders = append(c.SubShareHolders, row)
	}
	for _, r := range rec.Records("rdstaff") {
		row := rdStaff{ID: domain.RowID(r.ID("id"))}
		Apply(&row, r, preview, RDStaffRules)
		c.RDStaff = append(c.RDStaff, row)
	}
	for _, r := range rec.Records("equipments") {
		row := equipment{ID: domain.RowID(r.ID("id"))}
		Apply(&row, r, preview, EquipmentRules)
		c.Equipments = append(c.Equipments, row)
	}
	return c
}

func DecodeProposal(rec app.Record, preview Previewer) domain.ProposalDetails {
	var p domain.ProposalDetails
	Apply(&p, rec, preview, ProposalRules)
	for _, r := range rec.Records("team_members") {
		m := teamMember{ID: domain.RowID(r.ID("id"))}
		Apply(&m, r, preview, TeamMemberRules)
		p.TeamMembers = append(p.TeamMembers, m)
	}
	return p
}

func DecodeFund(rec app.Record, preview Previewer) domain.FundDetails {
	var f domain.FundDetails
	Apply(&f, rec, preview, FundRules)
	f.HasLoan = NormalizeLoanChoice(rec.String("has_loan"))
	for _, r := range rec.Records("fund_loan_documents") {
		f.LoanDocuments = append(f.LoanDocuments, domain.LoanDocument{
			ID:   domain.RowID(r.ID("id")),
			Name: domain.CoalesceStr(r.String("name"), "Loan Document"),
			File: domain.FileSlot{Preview: preview.Resolve(r.String("document"))},
		})
	}
	return f
}

// NormalizeLoanChoice maps the stored yes/no flag to the selection values.
// Anything else means no selection.
func NormalizeLoanChoice(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes":
		return domain.LoanYes
	case "no":
		return domain.LoanNo
	}
	return ""
}

// DecodeBudget reads the budget tree. Tables may arrive nested under
// budget_estimate or at the top level.
func DecodeBudget(rec app.Record) domain.BudgetEstimate {
	var b domain.BudgetEstimate

	if nested := rec.Object("budget_estimate"); nested != nil {
		b.Tables = decodeTables(nested.Records("tables"))
	}
	if b.Tables == nil {
		b.Tables = decodeTables(rec.Records("tables"))
	}
	if overhead := rec.Object("equipment_overhead"); overhead != nil {
		b.EquipmentOverhead = decodeTables(overhead.Records("tables"))
	}
	if income := rec.Object("income_estimate", "incomeEstimate"); income != nil {
		b.IncomeRows = income.Maps("rows")
	}
	b.ManpowerDetails = rec.Maps("manpower_details")
	b.OtherRequirements = rec.Maps("other_requirements")

	if b.ItemCount() > 0 {
		b.GrantTotals = b.ComputeTotals()
	} else {
		b.GrantTotals = domain.BudgetTotals{
			CapexYear0: rec.Float("capex_year_0"),
			OpexYear1:  rec.Float("opex_year_1"),
			OpexYear2:  rec.Float("opex_year_2"),
		}
	}
	return b
}

// DecodeTimeline fills the six milestone slots in stored order. Stored
// milestones beyond the last slot are dropped.
// decodeTables walks the budget tree leaf by leaf so a malformed cell
// value reads as 0 instead of failing the whole section.
func decodeTables(recs []app.Record) []domain.BudgetTable {
	if recs == nil {
		return nil
	}
	tables := make([]domain.BudgetTable, 0, len(recs))
	for _, tr := range recs {
		t := domain.BudgetTable{ID: tr.String("id"), Title: tr.String("title")}
		for _, or := range tr.Records("serviceOfferings", "service_offerings") {
			o := domain.ServiceOffering{ID: or.String("id"), Name: or.String("name")}
			for _, ir := range or.Records("items") {
				fin := ir.Object("financials")
				capex, opex := fin.Object("capex"), fin.Object("opex")
				o.Items = append(o.Items, domain.LineItem{
					ID:   ir.String("id"),
					Name: ir.String("name"),
					Financials: domain.Financials{
						Capex: domain.CapexYears{Year0: decodeCell(capex.Object("year0"))},
						Opex: domain.OpexYears{
							Year1: decodeCell(opex.Object("year1")),
							Year2: decodeCell(opex.Object("year2")),
						},
					},
				})
			}
			t.ServiceOfferings = append(t.ServiceOfferings, o)
		}
		tables = append(tables, t)
	}
	return tables
}

func decodeCell(r app.Record) domain.BudgetCell {
	return domain.BudgetCell{
		Description: r.String("description"),
		UnitCost:    r.Float("cost"),
		Quantity:    r.Float("qty"),
		Total:       r.Float("total"),
		Grant:       r.Float("grant"),
		Remarks:     r.String("remarks"),
	}
}

func DecodeTimeline(rec app.Record) domain.ObjectiveTimelines {
	var t domain.ObjectiveTimelines
	stored := rec.Records("milestones")
	for i := range t.Milestones {
		slot := milestone{ID: domain.RowID(i + 1)}
		if i < len(stored) {
			r := stored[i]
			Apply(&slot, r, Previewer{}, MilestoneRules)
			if id := r.ID("id"); id > 0 {
				slot.ID = domain.RowID(id)
			}
			slot.StartDate = datePart(r.String("start_date"))
			slot.EndDate = datePart(r.String("due_date", "end_date"))
			if slot.EndDate == "" {
				slot.EndDate = domain.EstimateEndDate(slot.StartDate, slot.TimeRequiredMonths)
			}
		}
		t.Milestones[i] = slot
	}
	return t
}

func DecodeIPR(rec app.Record, preview Previewer) domain.IPRDetails {
	var d domain.IPRDetails
	for _, r := range rec.Records("ipr_details") {
		e := iprEntry{ID: domain.RowID(r.ID("id"))}
		Apply(&e, r, preview, IPRRules)
		d.Entries = append(d.Entries, e)
	}
	return d
}

func datePart(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}
