package gnucash

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/bstpierre/gnucash-util/date"
)

// Commodity identifies a traded unit, for invoices always a currency.
type Commodity struct {
	Space string
	Code  string
}

func (c Commodity) String() string { return c.Space + ":" + c.Code }

// Account is a node in the book's account tree.
type Account struct {
	Name     string
	Type     string
	children []*Account
}

// Child returns the direct child with the given name, or nil.
func (a *Account) Child(name string) *Account {
	for _, c := range a.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// LookupByName searches the subtree rooted at a, depth-first, for the
// first account with the given name. It returns nil when none matches.
func (a *Account) LookupByName(name string) *Account {
	if a == nil {
		return nil
	}
	if a.Name == name {
		return a
	}
	for _, c := range a.children {
		if found := c.LookupByName(name); found != nil {
			return found
		}
	}
	return nil
}

// Children returns the direct children in insertion order.
func (a *Account) Children() []*Account { return a.children }

// Book holds the ledger's account tree, customers and invoices. It is
// the in-memory mutable state of a session; nothing reaches disk until
// the session is saved.
type Book struct {
	root        *Account
	customers   map[string]*Customer
	customerIDs []string
	invoices    map[string]*Invoice
	invoiceIDs  []string
	terms       map[string]*BillTerms
	termNames   []string
}

// NewBook returns an empty book with a root account.
func NewBook() *Book {
	return &Book{
		root:      &Account{Name: "Root Account", Type: "ROOT"},
		customers: make(map[string]*Customer),
		invoices:  make(map[string]*Invoice),
		terms:     make(map[string]*BillTerms),
	}
}

// RootAccount returns the top of the account tree.
func (b *Book) RootAccount() *Account { return b.root }

// AccountByName searches the whole tree for the first account with the
// given bare name, mirroring GnuCash's lookup_by_name.
func (b *Book) AccountByName(name string) *Account {
	for _, c := range b.root.children {
		if found := c.LookupByName(name); found != nil {
			return found
		}
	}
	return nil
}

// EnsureAccount walks the colon-separated path from the root, creating
// missing accounts along the way, and returns the leaf. The type is
// applied to the leaf only.
func (b *Book) EnsureAccount(path, typ string) *Account {
	a := b.root
	parts := strings.Split(path, ":")
	for _, name := range parts {
		next := a.Child(name)
		if next == nil {
			next = &Account{Name: name, Type: "PLACEHOLDER"}
			a.children = append(a.children, next)
		}
		a = next
	}
	if typ != "" {
		a.Type = typ
	}
	return a
}

// accountPath returns the colon-separated path of an account, or ""
// when the account is not in the tree.
func (b *Book) accountPath(target *Account) string {
	var walk func(a *Account, prefix string) string
	walk = func(a *Account, prefix string) string {
		for _, c := range a.children {
			p := c.Name
			if prefix != "" {
				p = prefix + ":" + c.Name
			}
			if c == target {
				return p
			}
			if found := walk(c, p); found != "" {
				return found
			}
		}
		return ""
	}
	return walk(b.root, "")
}

// Currency looks up a currency commodity by ISO code. Unknown codes are
// an error: invoice amounts are only meaningful in a real currency.
func (b *Book) Currency(code string) (Commodity, error) {
	if money.GetCurrency(code) == nil {
		return Commodity{}, fmt.Errorf("unknown currency %q", code)
	}
	return Commodity{Space: "CURRENCY", Code: code}, nil
}

// AddTerms registers billing terms under their name.
func (b *Book) AddTerms(t *BillTerms) error {
	if _, dup := b.terms[t.Name]; dup {
		return fmt.Errorf("billing terms %q already defined", t.Name)
	}
	b.terms[t.Name] = t
	b.termNames = append(b.termNames, t.Name)
	return nil
}

// TermsByName returns the billing terms with that name, or nil.
func (b *Book) TermsByName(name string) *BillTerms { return b.terms[name] }

// Terms returns all billing terms in insertion order.
func (b *Book) Terms() []*BillTerms {
	out := make([]*BillTerms, 0, len(b.termNames))
	for _, name := range b.termNames {
		out = append(out, b.terms[name])
	}
	return out
}

// AddCustomer registers a customer by its ledger ID.
func (b *Book) AddCustomer(c *Customer) error {
	if _, dup := b.customers[c.ID]; dup {
		return fmt.Errorf("customer %q already exists", c.ID)
	}
	b.customers[c.ID] = c
	b.customerIDs = append(b.customerIDs, c.ID)
	return nil
}

// CustomerByID returns the customer with that ID, or nil.
func (b *Book) CustomerByID(id string) *Customer { return b.customers[id] }

// Customers returns all customers in insertion order.
func (b *Book) Customers() []*Customer {
	out := make([]*Customer, 0, len(b.customerIDs))
	for _, id := range b.customerIDs {
		out = append(out, b.customers[id])
	}
	return out
}

// InvoiceByID returns the invoice with that ID, or nil when absent.
func (b *Book) InvoiceByID(id string) *Invoice { return b.invoices[id] }

// Invoices returns all invoices in insertion order.
func (b *Book) Invoices() []*Invoice {
	out := make([]*Invoice, 0, len(b.invoiceIDs))
	for _, id := range b.invoiceIDs {
		out = append(out, b.invoices[id])
	}
	return out
}

// NewInvoice creates an empty invoice in the book. The ID must be new:
// a duplicate invoice number is a precondition failure for the caller.
func (b *Book) NewInvoice(id string, currency Commodity, owner *Customer, opened date.Date) (*Invoice, error) {
	if _, dup := b.invoices[id]; dup {
		return nil, fmt.Errorf("invoice %q already exists", id)
	}
	if owner == nil {
		return nil, fmt.Errorf("invoice %q needs an owner", id)
	}
	inv := &Invoice{id: id, currency: currency, owner: owner, opened: opened}
	b.invoices[id] = inv
	b.invoiceIDs = append(b.invoiceIDs, id)
	return inv, nil
}
