// Package render produces the printable invoice document. It formats the
// stored values exactly as computed; no amount is ever recalculated here.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"invoiceapp/internal/config"
	"invoiceapp/internal/model"
)

// WriteError means the output path could not be written. The destination is
// left untouched: either the full document exists there, or nothing does.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write invoice document to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// PDF renders invoices onto an A4 page under the configured letterhead.
type PDF struct {
	company   config.Company
	outputDir string
}

func NewPDF(company config.Company, outputDir string) *PDF {
	return &PDF{company: company, outputDir: outputDir}
}

// Render writes the invoice document to path, or to
// <outputDir>/<invoiceNo>.pdf when path is empty, and returns the path
// written. The file appears atomically: the document is built in memory,
// written to a temp file in the destination directory and renamed into place.
func (p *PDF) Render(invoice *model.Invoice, path string) (string, error) {
	if path == "" {
		if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
			return "", &WriteError{Path: p.outputDir, Err: err}
		}
		safeName := strings.ReplaceAll(invoice.InvoiceNo, "/", "-")
		path = filepath.Join(p.outputDir, safeName+".pdf")
	}

	var buf bytes.Buffer
	if err := p.build(invoice).Output(&buf); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".invoice-*.pdf")
	if err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", &WriteError{Path: path, Err: err}
	}

	return path, nil
}

func (p *PDF) build(inv *model.Invoice) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 12, 14)
	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 28

	// Letterhead
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(usable, 8, p.company.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(usable, 5, p.company.Tagline, "", 1, "C", false, 0, "")
	for _, line := range strings.Split(p.company.Address, "\n") {
		pdf.CellFormat(usable, 5, line, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(usable, 5, p.company.Phones+" | "+p.company.Email, "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.SetLineWidth(0.5)
	pdf.Line(14, pdf.GetY(), pageWidth-14, pdf.GetY())
	pdf.Ln(4)

	// Invoice meta and customer block
	taxID := inv.CustomerTaxID
	if taxID == "" {
		taxID = "-"
	}
	meta := [][4]string{
		{"Invoice No:", inv.InvoiceNo, "Date:", inv.Date},
		{"Customer:", inv.CustomerName, "Tax %:", inv.TaxRatePercent.StringFixed(2) + "%"},
		{"Contact:", inv.CustomerContact, "Tax ID:", taxID},
		{"Address:", strings.ReplaceAll(inv.CustomerAddress, "\n", ", "), "", ""},
	}
	pdf.SetFont("Arial", "", 10)
	labelW, valueW := 25.0, usable/2 - 25
	for _, row := range meta {
		pdf.CellFormat(labelW, 7, row[0], "1", 0, "L", false, 0, "")
		if row[2] == "" {
			pdf.CellFormat(usable-labelW, 7, row[1], "1", 1, "L", false, 0, "")
			continue
		}
		pdf.CellFormat(valueW, 7, row[1], "1", 0, "L", false, 0, "")
		pdf.CellFormat(labelW, 7, row[2], "1", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 7, row[3], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Items table
	colW := []float64{14, usable - 14 - 20 - 28 - 32 - 32, 20, 28, 32, 32}
	headers := []string{"S.No", "Item Description", "Qty", "Rate", "Discount", "Amount"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(colW[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for i, it := range inv.Items {
		pdf.CellFormat(colW[0], 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 7, it.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 7, it.Quantity.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[3], 7, it.UnitRate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 7, it.Discount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[5], 7, it.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals
	totalsLabelW := usable - 40
	pdf.CellFormat(totalsLabelW, 7, "Subtotal", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, inv.Subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.CellFormat(totalsLabelW, 7, "Tax @ "+inv.TaxRatePercent.StringFixed(2)+"%", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, inv.TaxAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(totalsLabelW, 7, "Grand Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, inv.Total.StringFixed(2), "1", 1, "R", false, 0, "")

	if inv.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(18, 5, "Notes:", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(usable-18, 5, inv.Notes, "", "L", false)
	}

	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(usable, 5, "Authorized Signatory", "", 1, "L", false, 0, "")

	return pdf
}
