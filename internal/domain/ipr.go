package domain

type IPRDetails struct {
	Entries []IPREntry `yaml:"entries"`
}

type IPREntry struct {
	ID         RowID                  `yaml:"id"`
	Essence    EssenceOfProposal      `yaml:"essence"`
	Regulatory IPRegulatoryDetails    `yaml:"regulatory"`
	Provider   TelecomServiceProvider `yaml:"provider"`
}

type EssenceOfProposal struct {
	NationalImportance         string `yaml:"national_importance"`
	CommercializationPotential string `yaml:"commercialization_potential"`
	RiskFactors                string `yaml:"risk_factors"`
	PreliminaryWorkDone        string `yaml:"preliminary_work_done"`
	TechnologyStatus           string `yaml:"technology_status"`
	BusinessStrategy           string `yaml:"business_strategy"`
}

type IPRegulatoryDetails struct {
	BasedOnIPR          string   `yaml:"based_on_ipr"`
	IPOwnershipDetails  string   `yaml:"ip_ownership_details"`
	IPProposal          string   `yaml:"ip_proposal"`
	RegulatoryApprovals string   `yaml:"regulatory_approvals"`
	StatusApprovals     string   `yaml:"status_approvals"`
	ProofOfStatus       FileSlot `yaml:"proof_of_status"`
}

type TelecomServiceProvider struct {
	Name          string   `yaml:"name"`
	Designation   string   `yaml:"designation"`
	MobileNumber  string   `yaml:"mobile_number"`
	Email         string   `yaml:"email"`
	Address       string   `yaml:"address"`
	SupportLetter FileSlot `yaml:"support_letter"`
}
