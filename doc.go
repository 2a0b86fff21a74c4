// Package gnucash provides the small slice of a GnuCash-style book
// needed to automate invoicing: accounts, customers, billing terms and
// invoices, with exact rational amounts and a JSONL file format.
//
// The core functionalities include:
//   - Exact amounts: every quantity and price is a Numeric, a
//     numerator/denominator pair that round-trips its source decimal
//     string with no floating-point rounding.
//   - Book management: an account tree, customers indexed by ID and
//     invoices indexed by invoice number, mutated in memory.
//   - Invoice import: reconciling rows of a FreshBooks CSV export into
//     new posted invoices, one per invoice number or per number in a
//     templated range.
//   - Sessions: a locked, scoped handle on the book file; changes are
//     discarded unless explicitly saved.
//
// This package serves as the foundational logic for the `gnc`
// command-line tool; the renderer package draws a posted invoice as a
// single-page PDF.
package gnucash
