package domain

// BudgetEstimate is the nested cost tree. Only Tables feed validation and
// the derived grant totals.
type BudgetEstimate struct {
	Tables            []BudgetTable    `json:"tables" yaml:"tables"`
	EquipmentOverhead []BudgetTable    `json:"equipment_overhead" yaml:"equipment_overhead"`
	IncomeRows        []map[string]any `json:"income_rows" yaml:"income_rows"`
	ManpowerDetails   []map[string]any `json:"manpower_details" yaml:"manpower_details"`
	OtherRequirements []map[string]any `json:"other_requirements" yaml:"other_requirements"`

	// GrantTotals is derived from Tables on every budget edit.
	GrantTotals BudgetTotals `json:"-" yaml:"grant_totals"`
}

type BudgetTable struct {
	ID               string            `json:"id" yaml:"id"`
	Title            string            `json:"title" yaml:"title"`
	ServiceOfferings []ServiceOffering `json:"serviceOfferings" yaml:"service_offerings"`
}

type ServiceOffering struct {
	ID    string     `json:"id" yaml:"id"`
	Name  string     `json:"name" yaml:"name"`
	Items []LineItem `json:"items" yaml:"items"`
}

type LineItem struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Financials Financials `json:"financials" yaml:"financials"`
}

type Financials struct {
	Capex CapexYears `json:"capex" yaml:"capex"`
	Opex  OpexYears  `json:"opex" yaml:"opex"`
}

type CapexYears struct {
	Year0 BudgetCell `json:"year0" yaml:"year0"`
}

type OpexYears struct {
	Year1 BudgetCell `json:"year1" yaml:"year1"`
	Year2 BudgetCell `json:"year2" yaml:"year2"`
}

// BudgetCell is one financial leaf. Missing values decode as 0.
type BudgetCell struct {
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	UnitCost    float64 `json:"cost" yaml:"cost"`
	Quantity    float64 `json:"qty" yaml:"qty"`
	Total       float64 `json:"total" yaml:"total"`
	Grant       float64 `json:"grant" yaml:"grant"`
	Remarks     string  `json:"remarks,omitempty" yaml:"remarks,omitempty"`
}

// Funded reports whether any of the three tracked years carries a positive total.
func (f Financials) Funded() bool {
	return f.Capex.Year0.Total > 0 || f.Opex.Year1.Total > 0 || f.Opex.Year2.Total > 0
}

// BudgetTotals are the three aggregates the finance section derives from.
type BudgetTotals struct {
	CapexYear0 float64 `yaml:"capex_year0"`
	OpexYear1  float64 `yaml:"opex_year1"`
	OpexYear2  float64 `yaml:"opex_year2"`
}

// ComputeTotals sums every line item across Tables.
func (b *BudgetEstimate) ComputeTotals() BudgetTotals {
	var t BudgetTotals
	b.EachItem(func(item *LineItem) {
		t.CapexYear0 += item.Financials.Capex.Year0.Total
		t.OpexYear1 += item.Financials.Opex.Year1.Total
		t.OpexYear2 += item.Financials.Opex.Year2.Total
	})
	return t
}

// EachItem visits every line item under Tables in order.
func (b *BudgetEstimate) EachItem(fn func(item *LineItem)) {
	for ti := range b.Tables {
		offerings := b.Tables[ti].ServiceOfferings
		for oi := range offerings {
			items := offerings[oi].Items
			for ii := range items {
				fn(&items[ii])
			}
		}
	}
}

// ItemCount returns the number of line items under Tables.
func (b *BudgetEstimate) ItemCount() int {
	n := 0
	b.EachItem(func(*LineItem) { n++ })
	return n
}

// AddLineItem appends an item under the named table and offering, creating
// either when missing.
func (b *BudgetEstimate) AddLineItem(table, offering string, item LineItem) {
	ti := -1
	for i := range b.Tables {
		if b.Tables[i].Title == table {
			ti = i
			break
		}
	}
	if ti < 0 {
		b.Tables = append(b.Tables, BudgetTable{Title: table})
		ti = len(b.Tables) - 1
	}
	t := &b.Tables[ti]
	oi := -1
	for i := range t.ServiceOfferings {
		if t.ServiceOfferings[i].Name == offering {
			oi = i
			break
		}
	}
	if oi < 0 {
		t.ServiceOfferings = append(t.ServiceOfferings, ServiceOffering{Name: offering})
		oi = len(t.ServiceOfferings) - 1
	}
	t.ServiceOfferings[oi].Items = append(t.ServiceOfferings[oi].Items, item)
}
