// Package freshbooks reads the time-and-billing CSV export produced by
// freshbooks.com, plus the local file mapping display names to ledger
// customer IDs.
package freshbooks

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// The export is positional: 13 columns, bound by index, header row
// skipped. Only the columns below are consumed.
const (
	colClient        = 0
	colInvoiceNumber = 1
	colDate          = 2
	colDescription   = 5
	colUnitCost      = 7
	colQuantity      = 8
	colLineCost      = 12

	minColumns = 13
)

// Row is one line of the export. Fields are kept as the raw strings
// from the file: dates and amounts are parsed by the importer, and only
// for the rows it actually consumes.
type Row struct {
	Client        string
	InvoiceNumber string
	Date          string
	Description   string
	UnitCost      string
	Quantity      string
	LineCost      string // read but recomputed from quantity and unit cost
}

// Read parses the whole export from r. The first record is the header
// and is discarded without looking at its column names.
func Read(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv export is empty")
		}
		return nil, fmt.Errorf("cannot read csv header: %w", err)
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("cannot parse csv line %d: %w", line, err)
		}
		if len(record) < minColumns {
			return nil, fmt.Errorf("csv line %d has %d columns, want at least %d", line, len(record), minColumns)
		}
		rows = append(rows, Row{
			Client:        record[colClient],
			InvoiceNumber: record[colInvoiceNumber],
			Date:          record[colDate],
			Description:   record[colDescription],
			UnitCost:      record[colUnitCost],
			Quantity:      record[colQuantity],
			LineCost:      record[colLineCost],
		})
	}
	return rows, nil
}

// ReadFile reads the whole export file at once.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open csv export %q: %w", path, err)
	}
	defer f.Close()
	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ClientMap maps a free-text client display name to the ledger's
// customer ID. Loaded once per run, immutable afterwards.
type ClientMap map[string]string

// ReadClientMap parses the "Display Name=ID" file, one pair per line.
// Names carry no escaping, so the split happens on the first '='.
func ReadClientMap(r io.Reader) (ClientMap, error) {
	m := make(ClientMap)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		name, id, found := strings.Cut(text, "=")
		if !found || name == "" || id == "" {
			return nil, fmt.Errorf("client map line %d: %q is not Name=ID", line, text)
		}
		m[name] = id
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading client map: %w", err)
	}
	return m, nil
}

// ReadClientMapFile loads the map from its file.
func ReadClientMapFile(path string) (ClientMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open client map %q: %w", path, err)
	}
	defer f.Close()
	m, err := ReadClientMap(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ID resolves a display name to the customer ID.
func (m ClientMap) ID(name string) (string, error) {
	id, ok := m[name]
	if !ok {
		return "", fmt.Errorf("client %q has no ID mapping", name)
	}
	return id, nil
}
