package domain

type FundDetails struct {
	// HasLoan is LoanYes, LoanNo or empty when nothing is selected.
	HasLoan           string         `yaml:"has_loan"`
	LoanDescription   string         `yaml:"loan_description"`
	LoanAmount        float64        `yaml:"loan_amount"`
	LoanDocuments     []LoanDocument `yaml:"loan_documents"`
	BankName          string         `yaml:"bank_name"`
	BankBranch        string         `yaml:"bank_branch"`
	BankAccountNumber string         `yaml:"bank_account_number"`
	IFSCCode          string         `yaml:"ifsc_code"`
	AccountType       string         `yaml:"account_type"`
}

type LoanDocument struct {
	ID   RowID    `yaml:"id"`
	Name string   `yaml:"name"`
	File FileSlot `yaml:"file"`
}
