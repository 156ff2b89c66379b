package domain

// Consortium holds partner organisations, shareholding and R&D resources.
// Every list is optional.
type Consortium struct {
	TTDFAppliedBefore string           `yaml:"ttdf_applied_before"`
	Collaborators     []Collaborator   `yaml:"collaborators"`
	ShareHolders      []ShareHolder    `yaml:"share_holders"`
	SubShareHolders   []SubShareHolder `yaml:"sub_share_holders"`
	RDStaff           []RDStaff        `yaml:"rd_staff"`
	Equipments        []Equipment      `yaml:"equipments"`
}

// RowID identifies a sub-entity row. Positive values are server ids;
// zero or negative values mark rows not yet persisted.
type RowID int64

func (id RowID) Persisted() bool { return id > 0 }

type Collaborator struct {
	ID                RowID    `yaml:"id"`
	ContactPersonName string   `yaml:"contact_person_name"`
	OrganizationName  string   `yaml:"organization_name"`
	OrganizationType  string   `yaml:"organization_type"`
	TTDFCompany       string   `yaml:"ttdf_company"`
	PAN               string   `yaml:"pan"`
	MOUFileName       string   `yaml:"mou_file_name"`
	ApplicantType     string   `yaml:"applicant_type"`
	PANFile           FileSlot `yaml:"pan_file"`
	MOUFile           FileSlot `yaml:"mou_file"`
}

type ShareHolder struct {
	ID                   RowID    `yaml:"id"`
	ShareHolderName      string   `yaml:"share_holder_name"`
	SharePercentage      string   `yaml:"share_percentage"`
	IdentityDocumentName string   `yaml:"identity_document_name"`
	IdentityDocument     FileSlot `yaml:"identity_document"`
}

type SubShareHolder struct {
	ShareHolder      `yaml:",inline"`
	OrganizationName string `yaml:"organization_name"`
}

type RDStaff struct {
	ID                   RowID    `yaml:"id"`
	Name                 string   `yaml:"name"`
	Designation          string   `yaml:"designation"`
	Email                string   `yaml:"email"`
	HighestQualification string   `yaml:"highest_qualification"`
	Mobile               string   `yaml:"mobile"`
	EPFDetails           string   `yaml:"epf_details"`
	Resume               FileSlot `yaml:"resume"`
}

type Equipment struct {
	ID              RowID   `yaml:"id"`
	Item            string  `yaml:"item"`
	UnitPrice       float64 `yaml:"unit_price"`
	Quantity        float64 `yaml:"quantity"`
	Amount          float64 `yaml:"amount"`
	ContributorType string  `yaml:"contributor_type"`
}
