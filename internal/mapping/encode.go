package mapping

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

// Encode serialises one section into the wire record and pending uploads
// handed to the section store. Sub-entity rows are not included; see
// EntityRows.
func Encode(id domain.SectionID, s *domain.Sections) (app.Record, []app.FileUpload, error) {
	switch id {
	case domain.SectionBasic:
		rec, files := Emit(&s.Basic, BasicRules)
		return rec, files, nil

	case domain.SectionConsortium:
		return app.Record{
			"ttdf_applied_before": lowerOr(s.Consortium.TTDFAppliedBefore, "no"),
		}, nil, nil

	case domain.SectionProposal:
		rec, _ := Emit(&s.Proposal, ProposalRules)
		return rec, nil, nil

	case domain.SectionFund:
		rec, _ := Emit(&s.Fund, FundRules)
		rec["has_loan"] = lowerOr(s.Fund.HasLoan, "no")
		var files []app.FileUpload
		if docs := s.Fund.LoanDocuments; len(docs) > 0 && docs[0].File.Pending() {
			files = append(files, app.FileUpload{Field: "fund_loan_documents", Path: docs[0].File.Local.Path})
		}
		return rec, files, nil

	case domain.SectionBudget:
		b := &s.Budget
		return app.Record{
			"budget_estimate":    map[string]any{"tables": nonNilTables(b.Tables)},
			"equipment_overhead": map[string]any{"tables": nonNilTables(b.EquipmentOverhead)},
			"income_estimate":    map[string]any{"rows": nonNilMaps(b.IncomeRows)},
			"manpower_details":   nonNilMaps(b.ManpowerDetails),
			"other_requirements": nonNilMaps(b.OtherRequirements),
			"capex_year_0":       b.GrantTotals.CapexYear0,
			"opex_year_1":        b.GrantTotals.OpexYear1,
			"opex_year_2":        b.GrantTotals.OpexYear2,
		}, nil, nil

	case domain.SectionFinance:
		rec, _ := Emit(&s.Finance, FinanceRules)
		rec["contribution_rows"] = nonNilMaps(s.Finance.ContributionRows)
		rec["fund_rows"] = nonNilMaps(s.Finance.FundRows)
		return rec, nil, nil

	case domain.SectionTimeline:
		return app.Record{"milestones": encodeMilestones(&s.Timeline)}, nil, nil

	case domain.SectionIPR:
		rec, files := encodeIPR(&s.IPR)
		return rec, files, nil

	case domain.SectionProjectDocs:
		rec, files := Emit(&s.Documents, DocumentRules)
		rec["total_proposal_cost"] = s.Finance.TotalProjectCost
		return rec, files, nil
	}
	return nil, nil, fmt.Errorf("encoding %v: unknown section", id)
}

// Multipart reports whether a section is sent as multipart form data.
func Multipart(id domain.SectionID) bool {
	switch id {
	case domain.SectionBasic, domain.SectionFund, domain.SectionTimeline,
		domain.SectionIPR, domain.SectionProjectDocs:
		return true
	}
	return false
}

func encodeMilestones(t *domain.ObjectiveTimelines) []map[string]any {
	out := []map[string]any{}
	for i, m := range t.Milestones {
		if !m.Filled() {
			continue
		}
		id := m.ID
		if id <= 0 {
			id = domain.RowID(i + 1)
		}
		out = append(out, map[string]any{
			"id":                       int64(id),
			"title":                    m.ScopeOfWork,
			"description":              m.Description,
			"activities":               m.Activities,
			"time_required":            m.TimeRequiredMonths,
			"grant_from_ttdf":          m.TTDFGrant,
			"initial_contri_applicant": m.ApplicantContribution,
			"start_date":               m.StartDate,
			"due_date":                 m.EndDate,
		})
	}
	return out
}

func encodeIPR(d *domain.IPRDetails) (app.Record, []app.FileUpload) {
	entries := make([]map[string]any, 0, len(d.Entries))
	var files []app.FileUpload
	for i := range d.Entries {
		e := &d.Entries[i]
		rec, _ := Emit(e, IPRRules)
		if e.ID.Persisted() {
			rec["id"] = int64(e.ID)
		}
		entries = append(entries, rec)

		if e.Regulatory.ProofOfStatus.Pending() {
			files = append(files, app.FileUpload{Field: indexedField("proof_of_status", i), Path: e.Regulatory.ProofOfStatus.Local.Path})
		}
		if e.Provider.SupportLetter.Pending() {
			files = append(files, app.FileUpload{Field: indexedField("t_support_letter", i), Path: e.Provider.SupportLetter.Local.Path})
		}
	}
	return app.Record{"ipr_details": entries}, files
}

// indexedField names the upload field for the i-th repeated entry. The first
// entry keeps the bare name.
func indexedField(name string, i int) string {
	if i == 0 {
		return name
	}
	return fmt.Sprintf("%s_%d", name, i)
}

func lowerOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return strings.ToLower(v)
}

func nonNilTables(t []domain.BudgetTable) []domain.BudgetTable {
	if t == nil {
		return []domain.BudgetTable{}
	}
	return t
}

func nonNilMaps(m []map[string]any) []map[string]any {
	if m == nil {
		return []map[string]any{}
	}
	return m
}
