package domain

// BasicDetails holds applicant identity, organisation and address data.
type BasicDetails struct {
	ApplicantName string `yaml:"applicant_name"`
	Gender        string `yaml:"gender"`
	Qualification string `yaml:"qualification"`
	Mobile        string `yaml:"mobile"`
	Email         string `yaml:"email"`
	IndividualPAN string `yaml:"individual_pan"`
	Organization  string `yaml:"organization"`
	Landline      string `yaml:"landline"`
	Website       string `yaml:"website"`
	ProposalBy    string `yaml:"proposal_by"`
	TTDFCompany   string `yaml:"ttdf_company"`
	Subject       string `yaml:"subject,omitempty"`
	Description   string `yaml:"description,omitempty"`

	AddressLine1  string `yaml:"address_line_1"`
	AddressLine2  string `yaml:"address_line_2"`
	StreetVillage string `yaml:"street_village"`
	City          string `yaml:"city"`
	Country       string `yaml:"country"`
	State         string `yaml:"state"`
	Pincode       string `yaml:"pincode"`

	ApplicantPhoto          FileSlot `yaml:"applicant_photo"`
	Resume                  FileSlot `yaml:"resume"`
	PANFile                 FileSlot `yaml:"pan_file"`
	RegistrationCertificate FileSlot `yaml:"registration_certificate"`
	ShareHoldingPattern     FileSlot `yaml:"share_holding_pattern"`
	IndividualPANAttachment FileSlot `yaml:"individual_pan_attachment"`
	DSIRCertificate         FileSlot `yaml:"dsir_certificate"`
}

// RequiredText returns the labelled scalar fields that must be filled.
func (b *BasicDetails) RequiredText() []LabeledValue {
	return []LabeledValue{
		{"applicant name", b.ApplicantName},
		{"gender", b.Gender},
		{"qualification", b.Qualification},
		{"mobile", b.Mobile},
		{"email", b.Email},
		{"individual PAN", b.IndividualPAN},
		{"organization", b.Organization},
		{"landline", b.Landline},
		{"website", b.Website},
		{"proposal submitted by", b.ProposalBy},
		{"TTDF company", b.TTDFCompany},
		{"address line 1", b.AddressLine1},
		{"address line 2", b.AddressLine2},
		{"street/village", b.StreetVillage},
		{"city", b.City},
		{"country", b.Country},
		{"state", b.State},
		{"pincode", b.Pincode},
	}
}

// RequiredFiles returns the labelled attachment slots that must be satisfied.
func (b *BasicDetails) RequiredFiles() []LabeledSlot {
	return []LabeledSlot{
		{"applicant photo", b.ApplicantPhoto},
		{"resume", b.Resume},
		{"PAN file", b.PANFile},
		{"registration certificate", b.RegistrationCertificate},
		{"share holding pattern", b.ShareHoldingPattern},
		{"individual PAN attachment", b.IndividualPANAttachment},
	}
}

type LabeledValue struct {
	Label string
	Value string
}

type LabeledSlot struct {
	Label string
	Slot  FileSlot
}
