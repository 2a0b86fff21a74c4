// Package cmd implements the CLI application to import and render
// GnuCash invoices.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&importInvoiceCmd{}, "invoices")
	c.Register(&invoicePdfCmd{}, "invoices")
}

// Both tools read fixed files from the user's home directory unless a
// flag points elsewhere.
const (
	clientsFilename = ".gnc-import-clients"
	headerFilename  = ".gnc-invoice-header"
)

func homePath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filename
	}
	return filepath.Join(home, filename)
}

// printMarkdown renders a markdown document to the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// Fall back to the raw markdown rather than losing the report.
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
