package domain

type ProposalDetails struct {
	KeyInformation KeyInformation  `yaml:"key_information"`
	Summary        ProposalSummary `yaml:"summary"`
	TeamMembers    []TeamMember    `yaml:"team_members"`
}

type KeyInformation struct {
	ProposalBrief        string `yaml:"proposal_brief"`
	GrantToTurnoverRatio string `yaml:"grant_to_turnover_ratio"`
}

type ProposalSummary struct {
	ProposedVillage      string `yaml:"proposed_village"`
	UseCase              string `yaml:"use_case"`
	PotentialImpact      string `yaml:"potential_impact"`
	EndToEndSolution     string `yaml:"end_to_end_solution"`
	DataSecurityMeasures string `yaml:"data_security_measures"`
	ModelVillage         string `yaml:"model_village"`
}

type TeamMember struct {
	ID           RowID    `yaml:"id"`
	Name         string   `yaml:"name"`
	ResumeText   string   `yaml:"resume_text"`
	OtherDetails string   `yaml:"other_details"`
	ResumeFile   FileSlot `yaml:"resume_file"`
}
