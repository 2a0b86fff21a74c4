package gnucash

// Address holds the billing address of a customer: a contact name and
// up to four free-form address lines, any of which may be blank.
type Address struct {
	Name  string
	Addr1 string
	Addr2 string
	Addr3 string
	Addr4 string
}

// Lines returns the non-blank address lines in order.
func (a Address) Lines() []string {
	var out []string
	for _, l := range []string{a.Name, a.Addr1, a.Addr2, a.Addr3, a.Addr4} {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// BillTerms is a named payment rule. DueDays is the number of days
// after the invoice date the payment is due; zero means no due rule.
type BillTerms struct {
	Name    string
	DueDays int
}

// Customer is an invoice owner, identified by its numeric ledger ID.
type Customer struct {
	ID    string
	Name  string
	Addr  Address
	Terms *BillTerms
}
