package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
)

func runPdf(t *testing.T, args []string) subcommands.ExitStatus {
	t.Helper()
	cmd := &invoicePdfCmd{}
	f := flag.NewFlagSet("invoice-pdf", flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cmd.Execute(context.Background(), f)
}

func TestInvoicePdfCmd(t *testing.T) {
	dir := t.TempDir()
	ledger := writeTestLedger(t, dir)
	csv := writeFile(t, dir, "export.csv", testCSV)
	clients := writeFile(t, dir, "clients", "Foo Inc.=1001\n")
	header := writeFile(t, dir, "header", "Bar Consulting\n1 Infinite Loop\n")
	out := filepath.Join(dir, "invoice.pdf")

	// Post invoice 0042 first, through the importer.
	if status := runImport(t, []string{"-clients", clients, "-save", ledger, csv, "0042"}); status != subcommands.ExitSuccess {
		t.Fatalf("import status = %v", status)
	}

	if status := runPdf(t, []string{"-header", header, ledger, "0042", out}); status != subcommands.ExitSuccess {
		t.Fatalf("render status = %v", status)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || string(data[:4]) != "%PDF" {
		t.Errorf("output is not a PDF (%d bytes)", len(data))
	}
}

func TestInvoicePdfCmdFailures(t *testing.T) {
	dir := t.TempDir()
	ledger := writeTestLedger(t, dir)
	header := writeFile(t, dir, "header", "Bar Consulting\n")
	out := filepath.Join(dir, "invoice.pdf")

	testCases := []struct {
		name string
		args []string
		want subcommands.ExitStatus
	}{
		{
			name: "wrong arg count",
			args: []string{"-header", header, ledger, "0042"},
			want: subcommands.ExitUsageError,
		},
		{
			name: "unknown invoice",
			args: []string{"-header", header, ledger, "0099", out},
			want: subcommands.ExitFailure,
		},
		{
			name: "missing header file",
			args: []string{"-header", filepath.Join(dir, "absent"), ledger, "0042", out},
			want: subcommands.ExitFailure,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := runPdf(t, tc.args); got != tc.want {
				t.Errorf("status = %v, want %v", got, tc.want)
			}
			// No output artifact on failure, and no leaked lock.
			if _, err := os.Stat(out); !os.IsNotExist(err) {
				t.Error("failed render left an output file")
			}
			if _, err := os.Stat(ledger + ".LCK"); !os.IsNotExist(err) {
				t.Error("ledger lock left behind")
			}
		})
	}
}
