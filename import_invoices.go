package gnucash

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bstpierre/gnucash-util/date"
	"github.com/bstpierre/gnucash-util/freshbooks"
)

// ErrNoRows reports an import target that matched nothing in the CSV
// export. The original tool silently went on to post a never-created
// invoice; here a zero-match target is an explicit failure.
var ErrNoRows = errors.New("no matching rows in csv export")

// ImportOptions fixes the accounts and currency an import books
// against. The zero value uses the accounts the FreshBooks workflow has
// always used.
type ImportOptions struct {
	IncomeAccount     string // bare account name, default "Consulting"
	ReceivableAccount string // bare account name, default "Accounts Receivable"
	Currency          string // ISO code, default "USD"
}

func (o ImportOptions) withDefaults() ImportOptions {
	if o.IncomeAccount == "" {
		o.IncomeAccount = "Consulting"
	}
	if o.ReceivableAccount == "" {
		o.ReceivableAccount = "Accounts Receivable"
	}
	if o.Currency == "" {
		o.Currency = "USD"
	}
	return o
}

// ImportInvoice imports every CSV row whose invoice number equals id as
// a single new invoice, and posts it to the receivable account. The
// book is mutated in memory only; persisting is the caller's call.
//
// The invoice is opened on the date of its first row; every entry takes
// the header's opened date, not its own row's date.
func ImportInvoice(book *Book, rows []freshbooks.Row, clients freshbooks.ClientMap, id string, opts ImportOptions) (*Invoice, error) {
	opts = opts.withDefaults()

	income := book.AccountByName(opts.IncomeAccount)
	if income == nil {
		return nil, fmt.Errorf("income account %q not found in book", opts.IncomeAccount)
	}
	receivable := book.AccountByName(opts.ReceivableAccount)
	if receivable == nil {
		return nil, fmt.Errorf("receivable account %q not found in book", opts.ReceivableAccount)
	}
	incomePath := book.accountPath(income)

	var invoice *Invoice
	for _, row := range rows {
		if row.InvoiceNumber != id {
			continue
		}

		if invoice == nil {
			if existing := book.InvoiceByID(id); existing != nil {
				return nil, fmt.Errorf("invoice %q already exists", id)
			}
			customerID, err := clients.ID(row.Client)
			if err != nil {
				return nil, fmt.Errorf("invoice %q: %w", id, err)
			}
			customer := book.CustomerByID(customerID)
			if customer == nil {
				return nil, fmt.Errorf("invoice %q: customer %q (client %q) not found in book", id, customerID, row.Client)
			}
			currency, err := book.Currency(opts.Currency)
			if err != nil {
				return nil, fmt.Errorf("invoice %q: %w", id, err)
			}
			opened, err := date.Parse(row.Date)
			if err != nil {
				return nil, fmt.Errorf("invoice %q: %w", id, err)
			}
			invoice, err = book.NewInvoice(id, currency, customer, opened)
			if err != nil {
				return nil, err
			}
		}

		quantity, err := NumericFromString(row.Quantity)
		if err != nil {
			return nil, fmt.Errorf("invoice %q: quantity: %w", id, err)
		}
		price, err := NumericFromString(row.UnitCost)
		if err != nil {
			return nil, fmt.Errorf("invoice %q: unit cost: %w", id, err)
		}
		entry := &Entry{
			Description: row.Description,
			Date:        invoice.DateOpened(),
			Entered:     invoice.DateOpened(),
			Quantity:    quantity,
			Price:       price,
			Account:     incomePath,
		}
		if err := invoice.AppendEntry(entry); err != nil {
			return nil, fmt.Errorf("invoice %q: %w", id, err)
		}
	}

	if invoice == nil {
		return nil, fmt.Errorf("invoice %q: %w", id, ErrNoRows)
	}

	opened := invoice.DateOpened()
	if err := invoice.PostTo(receivable, opened, opened, "", true); err != nil {
		return nil, err
	}
	invoice.SetDatePosted(opened)
	return invoice, nil
}

// InvoiceSpec is either a literal invoice number or a template with an
// inclusive numeric range, like "%04d-24-55" for invoices 0024..0055.
type InvoiceSpec struct {
	Template string
	Low      int
	High     int
}

// IsRange reports whether the spec expands to more than a literal ID.
func (s InvoiceSpec) IsRange() bool { return s.Template != "" }

// IDs returns every invoice number the spec names, in order.
func (s InvoiceSpec) IDs() []string {
	if !s.IsRange() {
		return nil
	}
	ids := make([]string, 0, s.High-s.Low+1)
	for n := s.Low; n <= s.High; n++ {
		ids = append(ids, fmt.Sprintf(s.Template, n))
	}
	return ids
}

// ParseInvoiceSpec parses the command-line invoice spec. A spec without
// a dash is a literal invoice number and returns the zero-range spec;
// otherwise it must be TEMPLATE-LOW-HIGH with a single integer verb in
// the template.
func ParseInvoiceSpec(s string) (InvoiceSpec, error) {
	if !strings.Contains(s, "-") {
		return InvoiceSpec{}, nil
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return InvoiceSpec{}, fmt.Errorf("invalid invoice range %q: want TEMPLATE-LOW-HIGH", s)
	}
	tmpl := parts[0]
	if !strings.Contains(tmpl, "%") {
		return InvoiceSpec{}, fmt.Errorf("invalid invoice range %q: template %q has no %%d placeholder", s, tmpl)
	}
	low, err := strconv.Atoi(parts[1])
	if err != nil {
		return InvoiceSpec{}, fmt.Errorf("invalid invoice range %q: low bound: %w", s, err)
	}
	high, err := strconv.Atoi(parts[2])
	if err != nil {
		return InvoiceSpec{}, fmt.Errorf("invalid invoice range %q: high bound: %w", s, err)
	}
	if low > high {
		return InvoiceSpec{}, fmt.Errorf("invalid invoice range %q: low %d above high %d", s, low, high)
	}
	return InvoiceSpec{Template: tmpl, Low: low, High: high}, nil
}

// ImportInvoiceRange imports one invoice per ID in the range spec,
// rescanning the rows for each target. A failure on any target aborts
// the whole run; there is no partial-success skipping.
func ImportInvoiceRange(book *Book, rows []freshbooks.Row, clients freshbooks.ClientMap, spec InvoiceSpec, opts ImportOptions) ([]*Invoice, error) {
	var invoices []*Invoice
	for _, id := range spec.IDs() {
		inv, err := ImportInvoice(book, rows, clients, id, opts)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}
