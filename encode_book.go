package gnucash

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bstpierre/gnucash-util/date"
)

// The book file is JSONL: one record per line, identified by a "record"
// property. Records appear in dependency order (accounts, terms,
// customers, then each invoice followed by its entries) so a single
// forward pass can rebuild the book. The format is human readable and
// diffs cleanly under version control, like the rest of the tool's
// files.

// RecordType identifies the kind of a book file line.
type RecordType string

const (
	RecAccount  RecordType = "account"
	RecTerms    RecordType = "terms"
	RecCustomer RecordType = "customer"
	RecInvoice  RecordType = "invoice"
	RecEntry    RecordType = "entry"
)

type accountRec struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

type termsRec struct {
	Name    string `json:"name"`
	DueDays int    `json:"dueDays"`
}

type customerRec struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	AddrName string `json:"addrName"`
	Addr1    string `json:"addr1"`
	Addr2    string `json:"addr2"`
	Addr3    string `json:"addr3"`
	Addr4    string `json:"addr4"`
	Terms    string `json:"terms"`
}

type invoiceRec struct {
	ID         string    `json:"id"`
	Currency   string    `json:"currency"`
	Owner      string    `json:"owner"`
	Opened     date.Date `json:"opened"`
	Posted     date.Date `json:"posted"`
	Due        date.Date `json:"due"`
	PostedTo   string    `json:"postedTo"`
	Accumulate bool      `json:"accumulate"`
}

type entryRec struct {
	Invoice     string    `json:"invoice"`
	Date        date.Date `json:"date"`
	Entered     date.Date `json:"entered"`
	Description string    `json:"description"`
	Quantity    Numeric   `json:"quantity"`
	Price       Numeric   `json:"price"`
	Account     string    `json:"account"`
}

// DecodeBook reads a JSONL book stream, decodes each line into the
// matching record struct, and rebuilds the Book.
func DecodeBook(r io.Reader) (*Book, error) {
	book := NewBook()
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record RecordType `json:"record"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify record in %q: %w", lineNo, string(line), err)
		}

		switch identifier.Record {
		case RecAccount:
			var rec accountRec
			if err := json.Unmarshal(line, &rec); err != nil {
				return nil, fmt.Errorf("line %d: bad account record: %w", lineNo, err)
			}
			book.EnsureAccount(rec.Path, rec.Type)

		case RecTerms:
			var rec termsRec
			if err := json.Unmarshal(line, &rec); err != nil {
				return nil, fmt.Errorf("line %d: bad terms record: %w", lineNo, err)
			}
			if err := book.AddTerms(&BillTerms{Name: rec.Name, DueDays: rec.DueDays}); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}

		case RecCustomer:
			var rec customerRec
			if err := json.Unmarshal(line, &rec); err != nil {
				return nil, fmt.Errorf("line %d: bad customer record: %w", lineNo, err)
			}
			c := &Customer{
				ID:   rec.ID,
				Name: rec.Name,
				Addr: Address{Name: rec.AddrName, Addr1: rec.Addr1, Addr2: rec.Addr2, Addr3: rec.Addr3, Addr4: rec.Addr4},
			}
			if rec.Terms != "" {
				c.Terms = book.TermsByName(rec.Terms)
				if c.Terms == nil {
					return nil, fmt.Errorf("line %d: customer %q references unknown terms %q", lineNo, rec.ID, rec.Terms)
				}
			}
			if err := book.AddCustomer(c); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}

		case RecInvoice:
			var rec invoiceRec
			if err := json.Unmarshal(line, &rec); err != nil {
				return nil, fmt.Errorf("line %d: bad invoice record: %w", lineNo, err)
			}
			cur, err := book.Currency(rec.Currency)
			if err != nil {
				return nil, fmt.Errorf("line %d: invoice %q: %w", lineNo, rec.ID, err)
			}
			owner := book.CustomerByID(rec.Owner)
			if owner == nil {
				return nil, fmt.Errorf("line %d: invoice %q references unknown customer %q", lineNo, rec.ID, rec.Owner)
			}
			inv, err := book.NewInvoice(rec.ID, cur, owner, rec.Opened)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			inv.posted = rec.Posted
			inv.due = rec.Due
			inv.postedTo = rec.PostedTo
			inv.accumulate = rec.Accumulate

		case RecEntry:
			var rec entryRec
			if err := json.Unmarshal(line, &rec); err != nil {
				return nil, fmt.Errorf("line %d: bad entry record: %w", lineNo, err)
			}
			inv := book.InvoiceByID(rec.Invoice)
			if inv == nil {
				return nil, fmt.Errorf("line %d: entry references unknown invoice %q", lineNo, rec.Invoice)
			}
			// Append directly: a posted invoice decodes its own
			// entries, which AppendEntry would refuse.
			inv.entries = append(inv.entries, &Entry{
				Description: rec.Description,
				Date:        rec.Date,
				Entered:     rec.Entered,
				Quantity:    rec.Quantity,
				Price:       rec.Price,
				Account:     rec.Account,
			})

		default:
			return nil, fmt.Errorf("line %d: unknown record type %q", lineNo, identifier.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading book: %w", err)
	}
	return book, nil
}

// EncodeBook writes the book in the JSONL format read by DecodeBook.
func EncodeBook(w io.Writer, b *Book) error {
	writeLine := func(jw *jsonObjectWriter) error {
		data, err := jw.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write book record: %w", err)
		}
		return nil
	}

	var encodeAccounts func(a *Account, prefix string) error
	encodeAccounts = func(a *Account, prefix string) error {
		for _, c := range a.children {
			path := c.Name
			if prefix != "" {
				path = prefix + ":" + c.Name
			}
			var jw jsonObjectWriter
			jw.Append("record", RecAccount).Append("path", path).Append("type", c.Type)
			if err := writeLine(&jw); err != nil {
				return err
			}
			if err := encodeAccounts(c, path); err != nil {
				return err
			}
		}
		return nil
	}
	if err := encodeAccounts(b.root, ""); err != nil {
		return err
	}

	for _, t := range b.Terms() {
		var jw jsonObjectWriter
		jw.Append("record", RecTerms).Append("name", t.Name).Append("dueDays", t.DueDays)
		if err := writeLine(&jw); err != nil {
			return err
		}
	}

	for _, c := range b.Customers() {
		var jw jsonObjectWriter
		jw.Append("record", RecCustomer).Append("id", c.ID).Append("name", c.Name)
		jw.Optional("addrName", c.Addr.Name)
		jw.Optional("addr1", c.Addr.Addr1)
		jw.Optional("addr2", c.Addr.Addr2)
		jw.Optional("addr3", c.Addr.Addr3)
		jw.Optional("addr4", c.Addr.Addr4)
		if c.Terms != nil {
			jw.Append("terms", c.Terms.Name)
		}
		if err := writeLine(&jw); err != nil {
			return err
		}
	}

	for _, inv := range b.Invoices() {
		var jw jsonObjectWriter
		jw.Append("record", RecInvoice).Append("id", inv.id)
		jw.Append("currency", inv.currency.Code)
		jw.Append("owner", inv.owner.ID)
		jw.Append("opened", inv.opened)
		jw.Optional("posted", inv.posted)
		jw.Optional("due", inv.due)
		jw.Optional("postedTo", inv.postedTo)
		if inv.accumulate {
			jw.Append("accumulate", true)
		}
		if err := writeLine(&jw); err != nil {
			return err
		}

		for _, e := range inv.entries {
			var ew jsonObjectWriter
			ew.Append("record", RecEntry).Append("invoice", inv.id)
			ew.Append("date", e.Date).Append("entered", e.Entered)
			ew.Append("description", e.Description)
			ew.Append("quantity", e.Quantity).Append("price", e.Price)
			ew.Append("account", e.Account)
			if err := writeLine(&ew); err != nil {
				return err
			}
		}
	}
	return nil
}
