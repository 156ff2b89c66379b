package mapping

import (
	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/domain"
)

type (
	basic        = domain.BasicDetails
	collaborator = domain.Collaborator
	shareHolder  = domain.ShareHolder
	subHolder    = domain.SubShareHolder
	rdStaff      = domain.RDStaff
	equipment    = domain.Equipment
	proposal     = domain.ProposalDetails
	teamMember   = domain.TeamMember
	fund         = domain.FundDetails
	finance      = domain.FinanceDetails
	milestone    = domain.MilestoneSlot
	iprEntry     = domain.IPREntry
	documents    = domain.ProjectDocuments
)

// BasicRules maps Basic Details. Where two spellings exist, the legacy
// camelCase key is tried first to match stored drafts.
var BasicRules = []Rule[basic]{
	File(func(b *basic) *domain.FileSlot { return &b.ApplicantPhoto }, "profile_image", "applicantPhoto"),
	Text(func(b *basic) *string { return &b.ApplicantName }, "full_name", "applicantName"),
	Text(func(b *basic) *string { return &b.Gender }, "gender"),
	Text(func(b *basic) *string { return &b.Qualification }, "qualification"),
	File(func(b *basic) *domain.FileSlot { return &b.Resume }, "resume"),
	Text(func(b *basic) *string { return &b.Mobile }, "mobile"),
	Text(func(b *basic) *string { return &b.Email }, "email"),
	File(func(b *basic) *domain.FileSlot { return &b.IndividualPANAttachment }, "tan_pan_cin", "individualPanAttachment"),
	Text(func(b *basic) *string { return &b.IndividualPAN }, "individual_pan", "individualPAN"),
	Text(func(b *basic) *string { return &b.Organization }, "organization"),
	Text(func(b *basic) *string { return &b.Landline }, "landline", "landline_number").As("landline_number"),
	Text(func(b *basic) *string { return &b.Website }, "website", "website_link").As("website_link"),
	Text(func(b *basic) *string { return &b.ProposalBy }, "proposalBy", "proposal_submitted_by").As("proposal_submitted_by"),
	File(func(b *basic) *domain.FileSlot { return &b.PANFile }, "pan_file", "panFile"),
	File(func(b *basic) *domain.FileSlot { return &b.RegistrationCertificate }, "organization_registration_certificate", "registrationCertificate"),
	Text(func(b *basic) *string { return &b.TTDFCompany }, "ttdfCompany", "company_as_per_guidelines").As("company_as_per_guidelines"),
	File(func(b *basic) *domain.FileSlot { return &b.ShareHoldingPattern }, "share_holding_pattern", "shareHoldingPattern"),
	File(func(b *basic) *domain.FileSlot { return &b.DSIRCertificate }, "dsir_certificate", "dsirCertificate"),
	Text(func(b *basic) *string { return &b.AddressLine1 }, "addressLine1", "address_line_1").As("address_line_1"),
	Text(func(b *basic) *string { return &b.AddressLine2 }, "addressLine2", "address_line_2").As("address_line_2"),
	Text(func(b *basic) *string { return &b.StreetVillage }, "streetVillage", "street_village").As("street_village"),
	Text(func(b *basic) *string { return &b.City }, "city"),
	Text(func(b *basic) *string { return &b.Country }, "country"),
	Text(func(b *basic) *string { return &b.State }, "state"),
	Text(func(b *basic) *string { return &b.Pincode }, "pincode"),
	Text(func(b *basic) *string { return &b.Subject }, "subject"),
	Text(func(b *basic) *string { return &b.Description }, "description"),
}

var CollaboratorRules = []Rule[collaborator]{
	Text(func(c *collaborator) *string { return &c.ContactPersonName }, "contact_person_name_collab", "contactPersonName"),
	Text(func(c *collaborator) *string { return &c.OrganizationName }, "organization_name_collab", "organizationName"),
	Text(func(c *collaborator) *string { return &c.OrganizationType }, "organization_type_collab", "organizationType"),
	Text(func(c *collaborator) *string { return &c.TTDFCompany }, "ttdf_company", "ttdfCompany"),
	Text(func(c *collaborator) *string { return &c.PAN }, "pan_file_name_collab", "pan"),
	Text(func(c *collaborator) *string { return &c.MOUFileName }, "mou_file_name_collab", "mouFileName"),
	Text(func(c *collaborator) *string { return &c.ApplicantType }, "collaborator_type", "applicantType"),
	File(func(c *collaborator) *domain.FileSlot { return &c.PANFile }, "pan_file_collab", "panFilePreview"),
	File(func(c *collaborator) *domain.FileSlot { return &c.MOUFile }, "mou_file_collab", "mouFilePreview"),
}

var ShareHolderRules = []Rule[shareHolder]{
	Text(func(s *shareHolder) *string { return &s.ShareHolderName }, "share_holder_name"),
	Text(func(s *shareHolder) *string { return &s.SharePercentage }, "share_percentage"),
	Text(func(s *shareHolder) *string { return &s.IdentityDocumentName }, "identity_document_name"),
	File(func(s *shareHolder) *domain.FileSlot { return &s.IdentityDocument }, "identity_document"),
}

var SubShareHolderRules = append(
	liftShareHolderRules(),
	Text(func(s *subHolder) *string { return &s.OrganizationName }, "organization_name_subholder"),
)

func liftShareHolderRules() []Rule[subHolder] {
	out := make([]Rule[subHolder], 0, len(ShareHolderRules)+1)
	for _, r := range ShareHolderRules {
		r := r
		out = append(out, Rule[subHolder]{
			Keys: r.Keys,
			Out:  r.Out,
			decode: func(dst *subHolder, rec app.Record, p Previewer) {
				r.decode(&dst.ShareHolder, rec, p)
			},
			encode: func(src *subHolder, out app.Record, files *[]app.FileUpload, field string) {
				r.encode(&src.ShareHolder, out, files, field)
			},
		})
	}
	return out
}

var RDStaffRules = []Rule[rdStaff]{
	Text(func(s *rdStaff) *string { return &s.Name }, "name"),
	Text(func(s *rdStaff) *string { return &s.Designation }, "designation"),
	Text(func(s *rdStaff) *string { return &s.Email }, "email"),
	Text(func(s *rdStaff) *string { return &s.HighestQualification }, "highest_qualification"),
	Text(func(s *rdStaff) *string { return &s.Mobile }, "mobile"),
	Text(func(s *rdStaff) *string { return &s.EPFDetails }, "epf_details"),
	File(func(s *rdStaff) *domain.FileSlot { return &s.Resume }, "rd_staf_resume"),
}

var EquipmentRules = []Rule[equipment]{
	Text(func(e *equipment) *string { return &e.Item }, "item"),
	Number(func(e *equipment) *float64 { return &e.UnitPrice }, "unit_price"),
	Number(func(e *equipment) *float64 { return &e.Quantity }, "quantity"),
	Number(func(e *equipment) *float64 { return &e.Amount }, "amount"),
	Text(func(e *equipment) *string { return &e.ContributorType }, "contributor_type"),
}

var ProposalRules = []Rule[proposal]{
	Text(func(p *proposal) *string { return &p.KeyInformation.ProposalBrief }, "proposal_brief"),
	Text(func(p *proposal) *string { return &p.KeyInformation.GrantToTurnoverRatio }, "grant_to_turnover_ratio"),
	Text(func(p *proposal) *string { return &p.Summary.ProposedVillage }, "proposed_village"),
	Text(func(p *proposal) *string { return &p.Summary.UseCase }, "use_case"),
	Text(func(p *proposal) *string { return &p.Summary.PotentialImpact }, "potential_impact"),
	Text(func(p *proposal) *string { return &p.Summary.EndToEndSolution }, "end_to_end_solution"),
	Text(func(p *proposal) *string { return &p.Summary.DataSecurityMeasures }, "data_security_measures"),
	Text(func(p *proposal) *string { return &p.Summary.ModelVillage }, "model_village"),
}

var TeamMemberRules = []Rule[teamMember]{
	Text(func(m *teamMember) *string { return &m.Name }, "name"),
	Text(func(m *teamMember) *string { return &m.ResumeText }, "resumetext"),
	Text(func(m *teamMember) *string { return &m.OtherDetails }, "otherdetails"),
	File(func(m *teamMember) *domain.FileSlot { return &m.ResumeFile }, "resumefile"),
}

var FundRules = []Rule[fund]{
	Text(func(f *fund) *string { return &f.LoanDescription }, "fund_loan_description"),
	Number(func(f *fund) *float64 { return &f.LoanAmount }, "fund_loan_amount"),
	Text(func(f *fund) *string { return &f.BankName }, "bank_name"),
	Text(func(f *fund) *string { return &f.BankBranch }, "bank_branch"),
	Text(func(f *fund) *string { return &f.BankAccountNumber }, "bank_account_number"),
	Text(func(f *fund) *string { return &f.IFSCCode }, "ifsc_code"),
	Text(func(f *fund) *string { return &f.AccountType }, "account_type"),
}

var FinanceRules = []Rule[finance]{
	Amount(func(f *finance) **float64 { return &f.GrantFromTTDF }, "grant_from_ttdf"),
	Amount(func(f *finance) **float64 { return &f.ContributionApplicant }, "contribution_applicant"),
	Amount(func(f *finance) **float64 { return &f.ExpectedOtherContribution }, "expected_other_contribution"),
	Amount(func(f *finance) **float64 { return &f.OtherSourceFunding }, "other_source_funding"),
	Amount(func(f *finance) **float64 { return &f.ActualGrantFromTTDF }, "actual_grant_from_ttdf"),
	Amount(func(f *finance) **float64 { return &f.ActualContributionApplicant }, "actual_contribution_applicant"),
	Number(func(f *finance) *float64 { return &f.TotalProjectCost }, "total_project_cost"),
}

// MilestoneRules map one stored milestone. Dates are handled separately
// because the end date has a computed fallback.
var MilestoneRules = []Rule[milestone]{
	Text(func(m *milestone) *string { return &m.ScopeOfWork }, "title", "milestone_name"),
	Text(func(m *milestone) *string { return &m.Description }, "description"),
	Text(func(m *milestone) *string { return &m.Activities }, "activities"),
	Whole(func(m *milestone) *int { return &m.TimeRequiredMonths }, "time_required"),
	Number(func(m *milestone) *float64 { return &m.TTDFGrant }, "grant_from_ttdf"),
	Number(func(m *milestone) *float64 { return &m.ApplicantContribution }, "initial_contri_applicant"),
}

var IPRRules = []Rule[iprEntry]{
	Text(func(e *iprEntry) *string { return &e.Essence.NationalImportance }, "national_importance"),
	Text(func(e *iprEntry) *string { return &e.Essence.CommercializationPotential }, "commercialization_potential"),
	Text(func(e *iprEntry) *string { return &e.Essence.RiskFactors }, "risk_factors"),
	Text(func(e *iprEntry) *string { return &e.Essence.PreliminaryWorkDone }, "preliminary_work_done"),
	Text(func(e *iprEntry) *string { return &e.Essence.TechnologyStatus }, "technology_status"),
	Text(func(e *iprEntry) *string { return &e.Essence.BusinessStrategy }, "business_strategy"),
	Text(func(e *iprEntry) *string { return &e.Regulatory.BasedOnIPR }, "based_on_ipr"),
	Text(func(e *iprEntry) *string { return &e.Regulatory.IPOwnershipDetails }, "ip_ownership_details"),
	Text(func(e *iprEntry) *string { return &e.Regulatory.IPProposal }, "ip_proposal"),
	Text(func(e *iprEntry) *string { return &e.Regulatory.RegulatoryApprovals }, "regulatory_approvals"),
	Text(func(e *iprEntry) *string { return &e.Regulatory.StatusApprovals }, "status_approvals"),
	File(func(e *iprEntry) *domain.FileSlot { return &e.Regulatory.ProofOfStatus }, "proof_of_status"),
	Text(func(e *iprEntry) *string { return &e.Provider.Name }, "t_name"),
	Text(func(e *iprEntry) *string { return &e.Provider.Designation }, "t_designation"),
	Text(func(e *iprEntry) *string { return &e.Provider.MobileNumber }, "t_mobile_number"),
	Text(func(e *iprEntry) *string { return &e.Provider.Email }, "t_email"),
	Text(func(e *iprEntry) *string { return &e.Provider.Address }, "t_address"),
	File(func(e *iprEntry) *domain.FileSlot { return &e.Provider.SupportLetter }, "t_support_letter"),
}

var DocumentRules = []Rule[documents]{
	File(func(d *documents) *domain.FileSlot { return &d.GanttChart }, "gantt_chart"),
	File(func(d *documents) *domain.FileSlot { return &d.DPR }, "technical_proposal"),
	File(func(d *documents) *domain.FileSlot { return &d.Presentation }, "proposal_presentation"),
}
