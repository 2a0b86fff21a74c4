package gnucash

import (
	"testing"

	"github.com/bstpierre/gnucash-util/date"
)

func testInvoice(t *testing.T, b *Book) *Invoice {
	t.Helper()
	usd, _ := b.Currency("USD")
	inv, err := b.NewInvoice("0042", usd, b.CustomerByID("1001"), date.MustParse("2025-01-15"))
	if err != nil {
		t.Fatal(err)
	}
	return inv
}

func TestInvoiceTotal(t *testing.T) {
	b := newTestBook(t)
	inv := testInvoice(t, b)

	entries := []struct{ qty, price string }{
		{"5.5", "120.00"},
		{"2", "120.00"},
		{"0.25", "120.00"},
	}
	for _, e := range entries {
		err := inv.AppendEntry(&Entry{
			Description: "Consulting",
			Date:        inv.DateOpened(),
			Entered:     inv.DateOpened(),
			Quantity:    MustNumeric(e.qty),
			Price:       MustNumeric(e.price),
			Account:     "Income:Consulting",
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	// 5.5*120 + 2*120 + 0.25*120 = 930, exactly.
	if got := inv.Total(); got.Cmp(MustNumeric("930")) != 0 {
		t.Errorf("Total() = %s, want 930", got.Decimal())
	}
}

func TestInvoicePost(t *testing.T) {
	b := newTestBook(t)
	inv := testInvoice(t, b)
	receivable := b.AccountByName("Accounts Receivable")
	opened := inv.DateOpened()

	if inv.IsPosted() {
		t.Fatal("new invoice should not be posted")
	}
	if err := inv.PostTo(receivable, opened, opened.Add(30), "", true); err != nil {
		t.Fatal(err)
	}
	if !inv.IsPosted() {
		t.Error("invoice should be posted")
	}
	if inv.PostedTo() != "Accounts Receivable" {
		t.Errorf("PostedTo() = %q", inv.PostedTo())
	}
	if inv.DateDue() != opened.Add(30) {
		t.Errorf("DateDue() = %s", inv.DateDue())
	}

	// Posting again or appending entries after posting must fail.
	if err := inv.PostTo(receivable, opened, opened, "", true); err == nil {
		t.Error("double post: want error")
	}
	if err := inv.AppendEntry(&Entry{Description: "late"}); err == nil {
		t.Error("append after post: want error")
	}
}

func TestInvoicePostNilAccount(t *testing.T) {
	b := newTestBook(t)
	inv := testInvoice(t, b)
	if err := inv.PostTo(nil, inv.DateOpened(), inv.DateOpened(), "", true); err == nil {
		t.Error("post to nil account: want error")
	}
}

func TestInvoiceTerms(t *testing.T) {
	b := newTestBook(t)
	inv := testInvoice(t, b)
	if terms := inv.Terms(); terms == nil || terms.DueDays != 30 {
		t.Errorf("Terms() = %v, want Net 30", terms)
	}

	// A customer without terms yields a nil terms invoice.
	if err := b.AddCustomer(&Customer{ID: "1002", Name: "Itty LLC"}); err != nil {
		t.Fatal(err)
	}
	usd, _ := b.Currency("USD")
	inv2, err := b.NewInvoice("0043", usd, b.CustomerByID("1002"), date.MustParse("2025-01-15"))
	if err != nil {
		t.Fatal(err)
	}
	if inv2.Terms() != nil {
		t.Errorf("Terms() = %v, want nil", inv2.Terms())
	}
}
