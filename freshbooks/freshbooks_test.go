package freshbooks

import (
	"strings"
	"testing"
)

// csvLine builds a 13-column export line with the consumed columns
// filled in and the rest blank.
func csvLine(client, invoice, day, desc, cost, qty, lineCost string) string {
	cols := make([]string, 13)
	cols[colClient] = client
	cols[colInvoiceNumber] = invoice
	cols[colDate] = day
	cols[colDescription] = desc
	cols[colUnitCost] = cost
	cols[colQuantity] = qty
	cols[colLineCost] = lineCost
	return strings.Join(cols, ",")
}

const header = "Client,Invoice #,Date Issued,c3,c4,Description,c6,Unit Cost,Quantity,c9,c10,c11,Line Total"

func TestRead(t *testing.T) {
	in := strings.Join([]string{
		header,
		csvLine("Foo Inc.", "0042", "2025-01-15", "Design review", "120.00", "5.5", "660.00"),
		csvLine("Itty LLC", "0043", "2025-01-16", "Maintenance", "95.00", "2", "190.00"),
	}, "\n")

	rows, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	want := Row{
		Client:        "Foo Inc.",
		InvoiceNumber: "0042",
		Date:          "2025-01-15",
		Description:   "Design review",
		UnitCost:      "120.00",
		Quantity:      "5.5",
		LineCost:      "660.00",
	}
	if rows[0] != want {
		t.Errorf("rows[0] = %+v, want %+v", rows[0], want)
	}
}

func TestReadQuotedFields(t *testing.T) {
	in := header + "\n" +
		`"Foo, Inc.",0042,2025-01-15,,,"Design, review",,120.00,5.5,,,,660.00`
	rows, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Client != "Foo, Inc." || rows[0].Description != "Design, review" {
		t.Errorf("quoted fields mangled: %+v", rows[0])
	}
}

func TestReadErrors(t *testing.T) {
	testCases := []struct {
		name string
		in   string
	}{
		{name: "empty file", in: ""},
		{name: "short row", in: header + "\nFoo Inc.,0042,2025-01-15"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tc.in)); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestReadHeaderOnly(t *testing.T) {
	rows, err := Read(strings.NewReader(header + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}

func TestReadClientMap(t *testing.T) {
	in := `Foo Inc.=1001
Itty LLC=1002

Bitty LP=1003
Peta Corp.=1004
`
	m, err := ReadClientMap(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 4 {
		t.Fatalf("map size = %d, want 4", len(m))
	}
	id, err := m.ID("Itty LLC")
	if err != nil || id != "1002" {
		t.Errorf("ID(Itty LLC) = %q, %v", id, err)
	}
	if _, err := m.ID("Unknown Co"); err == nil {
		t.Error("ID of unmapped client: want error")
	}
}

func TestReadClientMapFirstEquals(t *testing.T) {
	// Names carry no escaping: the split is on the first '='.
	m, err := ReadClientMap(strings.NewReader("A=B Corp=77\n"))
	if err != nil {
		t.Fatal(err)
	}
	if id := m["A"]; id != "B Corp=77" {
		t.Errorf(`m["A"] = %q, want "B Corp=77"`, id)
	}
}

func TestReadClientMapErrors(t *testing.T) {
	for _, in := range []string{"no separator\n", "=1001\n", "Foo Inc.=\n"} {
		if _, err := ReadClientMap(strings.NewReader(in)); err == nil {
			t.Errorf("ReadClientMap(%q): want error", in)
		}
	}
}
