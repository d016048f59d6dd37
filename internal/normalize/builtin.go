package normalize

// Built-in institution profiles. Custom profiles from recon.yaml are
// registered on top of these.

// ChaseProfile reads Chase checking exports.
func ChaseProfile() Profile {
	return Profile{
		Name:              "chase",
		HasHeader:         true,
		DateColumn:        "Posting Date",
		DateFormats:       []string{"01/02/2006"},
		DescriptionColumn: "Description",
		AmountColumn:      "Amount",
		ReferenceColumn:   "Check or Slip #",
		BalanceColumn:     "Balance",
	}
}

// WellsFargoProfile reads Wells Fargo exports, which ship without a header
// row: date, amount, star, blank, description.
func WellsFargoProfile() Profile {
	return Profile{
		Name:              "wells_fargo",
		HasHeader:         false,
		DateColumn:        "0",
		DateFormats:       []string{"01/02/2006"},
		DescriptionColumn: "4",
		AmountColumn:      "1",
	}
}

// QuickBooksProfile reads accounting-ledger exports with split
// debit/credit columns.
func QuickBooksProfile() Profile {
	return Profile{
		Name:              "quickbooks",
		HasHeader:         true,
		DateColumn:        "Date",
		DateFormats:       []string{"01/02/2006", "2006-01-02"},
		DescriptionColumn: "Description",
		DebitColumn:       "Debit",
		CreditColumn:      "Credit",
		ReferenceColumn:   "Reference",
	}
}

// DefaultRegistry returns a registry with all built-in profiles.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(ChaseProfile())
	r.Register(WellsFargoProfile())
	r.Register(QuickBooksProfile())
	return r
}
