package gnucash

import (
	"fmt"

	"github.com/bstpierre/gnucash-util/date"
)

// Entry is a single billable line of an invoice.
type Entry struct {
	Description string
	Date        date.Date
	Entered     date.Date
	Quantity    Numeric
	Price       Numeric
	Account     string // income account path the line credits
}

// Value returns quantity times price, exactly.
func (e *Entry) Value() Numeric { return e.Quantity.Mul(e.Price) }

// Invoice is a customer invoice: a header plus an ordered list of
// entries. It is created open, accumulates entries, and is finalized by
// a single post to a receivable account.
type Invoice struct {
	id       string
	currency Commodity
	owner    *Customer
	opened   date.Date
	posted   date.Date
	due      date.Date
	postedTo string
	// accumulate records the auto-accumulation of receivable splits
	// requested at post time.
	accumulate bool
	entries    []*Entry
}

func (inv *Invoice) ID() string           { return inv.id }
func (inv *Invoice) Currency() Commodity  { return inv.currency }
func (inv *Invoice) Owner() *Customer     { return inv.owner }
func (inv *Invoice) DateOpened() date.Date { return inv.opened }
func (inv *Invoice) DatePosted() date.Date { return inv.posted }
func (inv *Invoice) DateDue() date.Date    { return inv.due }
func (inv *Invoice) PostedTo() string      { return inv.postedTo }

// Terms returns the billing terms the invoice inherits from its owner,
// or nil when the owner has none.
func (inv *Invoice) Terms() *BillTerms {
	if inv.owner == nil {
		return nil
	}
	return inv.owner.Terms
}

// Entries returns the invoice lines in the order they were appended.
func (inv *Invoice) Entries() []*Entry { return inv.entries }

// AppendEntry adds a line to the invoice. Posted invoices are frozen.
func (inv *Invoice) AppendEntry(e *Entry) error {
	if inv.IsPosted() {
		return fmt.Errorf("invoice %q is posted, cannot add entries", inv.id)
	}
	inv.entries = append(inv.entries, e)
	return nil
}

// Total returns the exact sum of all entry values.
func (inv *Invoice) Total() Numeric {
	total := NewNumeric(0, 1)
	for _, e := range inv.entries {
		total = total.Add(e.Value())
	}
	return total
}

// IsPosted reports whether the invoice has been posted to an account.
func (inv *Invoice) IsPosted() bool { return inv.postedTo != "" }

// PostTo posts the invoice to a receivable account with the given due
// date. With accumulate set, the receivable splits are folded into one.
// Posting twice is an error.
func (inv *Invoice) PostTo(receivable *Account, postedOn, due date.Date, memo string, accumulate bool) error {
	if receivable == nil {
		return fmt.Errorf("invoice %q: no account to post to", inv.id)
	}
	if inv.IsPosted() {
		return fmt.Errorf("invoice %q is already posted to %q", inv.id, inv.postedTo)
	}
	_ = memo // carried for interface fidelity, the book keeps no transaction memo
	inv.postedTo = receivable.Name
	inv.posted = postedOn
	inv.due = due
	inv.accumulate = accumulate
	return nil
}

// SetDatePosted stamps the posted date. GnuCash keeps this separate
// from the posting operation itself.
func (inv *Invoice) SetDatePosted(d date.Date) { inv.posted = d }
