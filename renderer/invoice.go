// Package renderer draws a posted invoice as a single-page PDF with a
// fixed letter layout: watermark title, sender and recipient blocks, a
// summary box, the line-item table, a totals box and a payment-terms
// strip.
package renderer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	gnucash "github.com/bstpierre/gnucash-util"
)

// All positions are points, origin at the top-left of a letter page.
const (
	inch = 72.0

	pageWidth = 8.5 * inch

	fontHeight  = 10.0
	leading     = fontHeight + 2 // line spacing inside text blocks
	margin      = 0.75 * inch    // left margin, shared by every block
	watermarkY  = 0.75 * inch
	recipientY  = 2.25 * inch
	detailTop   = 4.0 * inch
	detailWidth = 6.75 * inch
	detailHeight = 5.0 * inch

	// Summary box, mid-upper right: 3 rows by 2 columns.
	summaryX      = 4.5 * inch
	summaryWidth  = 3.0 * inch
	summaryHeight = 0.75 * inch
	summaryRows   = 3
	summaryCols   = 2

	// Detail table row: 2pt spacing above and below the text.
	rowHeight = fontHeight + 2 + 2

	// Totals box rows are taller; 6pt of padding above and below.
	totalsPad       = 6.0
	totalsRowHeight = fontHeight + 2*totalsPad
	totalsRows      = 4
)

// Grey shades matching the original output.
var (
	lightGrey = [3]int{211, 211, 211}
	darkGrey  = [3]int{169, 169, 169}
)

// detail table column widths; the description column absorbs whatever
// the fixed columns leave of the total width.
func detailWidths() [5]float64 {
	w := [5]float64{80, 0, 50, 50, 80}
	w[1] = detailWidth - (w[0] + w[2] + w[3] + w[4])
	return w
}

// WriteInvoiceFile renders the invoice to a new PDF file.
func WriteInvoiceFile(path string, inv *gnucash.Invoice, sender []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create pdf %q: %w", path, err)
	}
	if err := Invoice(f, inv, sender); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Invoice renders the single page to w.
func Invoice(w io.Writer, inv *gnucash.Invoice, sender []string) error {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Translucent watermark title behind everything else.
	pdf.SetFont("Helvetica", "B", 24)
	setText(pdf, lightGrey)
	drawCentered(pdf, pageWidth/2, watermarkY, "INVOICE")

	pdf.SetFont("Helvetica", "", fontHeight)
	setText(pdf, [3]int{0, 0, 0})

	drawTextBlock(pdf, margin, margin, sender)
	drawTextBlock(pdf, margin, recipientY, recipientLines(inv.Owner()))

	drawSummaryBox(pdf, inv)
	drawDetailTable(pdf, inv)
	drawTotalsBox(pdf, inv)
	drawTermsStrip(pdf, inv)

	if pdf.Err() {
		return fmt.Errorf("rendering invoice %q: %w", inv.ID(), pdf.Error())
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing invoice %q pdf: %w", inv.ID(), err)
	}
	return nil
}

// recipientLines builds the to-block: customer name then the address
// lines, blanks omitted.
func recipientLines(c *gnucash.Customer) []string {
	lines := []string{c.Name}
	return append(lines, c.Addr.Lines()...)
}

// drawTextBlock writes lines top-down from (x, y), the first baseline
// sitting on y.
func drawTextBlock(pdf *gofpdf.Fpdf, x, y float64, lines []string) {
	for i, line := range lines {
		pdf.Text(x, y+float64(i)*leading, line)
	}
}

// drawCentered centers the string horizontally on x.
func drawCentered(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s)/2, y, s)
}

// drawAligned places the last pivot character of s at x, or right-aligns
// the whole string at x when the pivot does not occur. Numeric columns
// align on '%' (absent, so flush right) and totals on ':' and '.'.
func drawAligned(pdf *gofpdf.Fpdf, x, y float64, s string, pivot byte) {
	head := s
	if i := strings.LastIndexByte(s, pivot); i >= 0 {
		head = s[:i]
	}
	pdf.Text(x-pdf.GetStringWidth(head), y, s)
}

func setText(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetTextColor(c[0], c[1], c[2]) }
func setFill(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetFillColor(c[0], c[1], c[2]) }

// drawSummaryBox draws the 3x2 invoice number / date / amount due box.
func drawSummaryBox(pdf *gofpdf.Fpdf, inv *gnucash.Invoice) {
	data := [summaryRows][summaryCols]string{
		{"Invoice #", inv.ID()},
		{"Date", inv.DatePosted().String()},
		{"Amount Due (USD)", displayAmount(inv.Total())},
	}

	y := recipientY - fontHeight
	colWidth := summaryWidth / summaryCols
	cellHeight := summaryHeight / summaryRows

	for row := 0; row < summaryRows; row++ {
		for col := 0; col < summaryCols; col++ {
			rectX := summaryX + colWidth*float64(col)
			rectY := y + cellHeight*float64(row)

			setFill(pdf, darkGrey)
			style := "D"
			if col == 0 {
				style = "FD"
			}
			pdf.Rect(rectX, rectY, colWidth, cellHeight, style)

			textY := rectY + fontHeight + 2
			if col > 0 {
				drawAligned(pdf, rectX+colWidth, textY, data[row][col], '%')
			} else {
				pdf.Text(rectX+5, textY, data[row][col])
			}
		}
	}
}

// drawDetailTable draws the header row and one row per entry. There is
// no pagination: enough entries will overflow the fixed detail box.
func drawDetailTable(pdf *gofpdf.Fpdf, inv *gnucash.Invoice) {
	rows := [][5]string{
		{"Date", "Description", "Hours", "Rate ($)", "Line Total"},
	}
	for _, e := range inv.Entries() {
		rows = append(rows, [5]string{
			e.Date.String(),
			e.Description,
			fmt.Sprintf("%0.2f", e.Quantity.Float64()),
			fmt.Sprintf("%0.2f", e.Price.Float64()),
			fmt.Sprintf("%0.2f", e.Value().Float64()),
		})
	}

	widths := detailWidths()
	for rowNum, row := range rows {
		rectX := margin
		rectY := detailTop + rowHeight*float64(rowNum)
		for colNum, cell := range row {
			colWidth := widths[colNum]

			setFill(pdf, darkGrey)
			style := "D"
			if rowNum == 0 {
				style = "FD"
			}
			pdf.Rect(rectX, rectY, colWidth, rowHeight, style)

			textY := rectY + fontHeight + 2
			if colNum > 1 {
				drawAligned(pdf, rectX+colWidth, textY, cell, '%')
			} else {
				pdf.Text(rectX+5, textY, cell)
			}
			rectX += colWidth
		}
	}

	// Outer bounding box around the whole items area.
	pdf.Rect(margin, detailTop, detailWidth, detailHeight, "D")
}

// drawTotalsBox stacks subtotal, total, amount paid and balance due in
// the right half of the box above the terms strip. The balance row is
// shaded: that is the line the customer pays.
func drawTotalsBox(pdf *gofpdf.Fpdf, inv *gnucash.Invoice) {
	total := displayAmount(inv.Total())
	data := [totalsRows][2]string{
		{"Subtotal:", total},
		{"Total:", total},
		{"Amount Paid:", "$0.00"},
		{"Balance Due:", total},
	}

	boxHeight := totalsRowHeight * (totalsRows + 1)
	boxY := detailTop + detailHeight - boxHeight
	pdf.Rect(margin, boxY, detailWidth, boxHeight, "D")

	for n := 0; n < totalsRows; n++ {
		rowY := boxY + totalsRowHeight*float64(n)
		textY := rowY + totalsRowHeight - totalsPad

		setFill(pdf, lightGrey)
		style := "D"
		if n == totalsRows-1 {
			style = "FD"
		}
		pdf.Rect(margin+detailWidth/2, rowY, detailWidth/2, totalsRowHeight, style)

		drawAligned(pdf, margin+detailWidth/2+1.5*inch, textY, data[n][0], ':')
		drawAligned(pdf, margin+detailWidth-20, textY, data[n][1], '.')
	}
}

// drawTermsStrip draws the bottom strip of the detail box, with the due
// sentence centered in it when the invoice carries a due-days rule.
func drawTermsStrip(pdf *gofpdf.Fpdf, inv *gnucash.Invoice) {
	stripY := detailTop + detailHeight - totalsRowHeight
	pdf.Rect(margin, stripY, detailWidth, totalsRowHeight, "D")

	if due := termsSentence(inv.Terms()); due != "" {
		drawCentered(pdf, margin+detailWidth/2, detailTop+detailHeight-totalsPad, due)
	}
}

// termsSentence returns the payment-terms sentence, or "" when there is
// no due-days rule to state.
func termsSentence(t *gnucash.BillTerms) string {
	if t == nil || t.DueDays == 0 {
		return ""
	}
	return fmt.Sprintf("Payment due within %d days of invoice date.", t.DueDays)
}

// displayAmount formats an exact amount for presentation. The float
// conversion is display-only and never feeds back into ledger amounts.
func displayAmount(n gnucash.Numeric) string {
	return fmt.Sprintf("$%0.2f", n.Float64())
}
