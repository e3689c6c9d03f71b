package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"invoiceapp/internal/config"
	"invoiceapp/internal/model"
	"invoiceapp/internal/render"
)

func testCompany() config.Company {
	return config.Company{
		Name:    "Test Packaging Co",
		Tagline: "Pouches of every kind",
		Address: "1 Factory Road\nTestville",
		Phones:  "Mobile: 000",
		Email:   "Email: test@example.com",
	}
}

func renderedInvoice() *model.Invoice {
	return &model.Invoice{
		InvoiceNo:      "INV-20240101-0001",
		Date:           "2024-01-01",
		CustomerName:   "Acme Traders",
		CustomerTaxID:  "TAX123",
		TaxRatePercent: decimal.RequireFromString("18"),
		Notes:          "Payment due in 30 days",
		Subtotal:       decimal.RequireFromString("240"),
		TaxAmount:      decimal.RequireFromString("43.2"),
		Total:          decimal.RequireFromString("283.2"),
		Items: []model.LineItem{
			{Position: 0, Name: "Pouch A", Quantity: decimal.NewFromInt(10), UnitRate: decimal.NewFromInt(5), Amount: decimal.NewFromInt(50)},
			{Position: 1, Name: "Pouch B", Quantity: decimal.NewFromInt(2), UnitRate: decimal.NewFromInt(100), Discount: decimal.NewFromInt(10), Amount: decimal.NewFromInt(190)},
		},
	}
}

func TestRender_ExplicitPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "out.pdf")

	p := render.NewPDF(testCompany(), dir)
	path, err := p.Render(renderedInvoice(), target)
	require.NoError(t, err)
	require.Equal(t, target, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.Equal(t, "%PDF", string(data[:4]))
}

func TestRender_DefaultPathFromNumber(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outputDir := filepath.Join(dir, "invoices")

	p := render.NewPDF(testCompany(), outputDir)
	path, err := p.Render(renderedInvoice(), "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outputDir, "INV-20240101-0001.pdf"), path)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestRender_UnwritablePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	missing := filepath.Join(dir, "no-such-dir", "out.pdf")

	p := render.NewPDF(testCompany(), dir)
	_, err := p.Render(renderedInvoice(), missing)

	var werr *render.WriteError
	require.ErrorAs(t, err, &werr)
	require.Equal(t, missing, werr.Path)

	// Atomic write-or-fail: nothing was left at the destination.
	_, statErr := os.Stat(missing)
	require.True(t, os.IsNotExist(statErr))

	// And no stray temp files either.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Empty(t, entries)
}

func TestRender_DoesNotMutateInvoice(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inv := renderedInvoice()

	p := render.NewPDF(testCompany(), dir)
	_, err := p.Render(inv, filepath.Join(dir, "out.pdf"))
	require.NoError(t, err)

	// The renderer trusts stored values and never recomputes them.
	require.Equal(t, "240.00", inv.Subtotal.StringFixed(2))
	require.Equal(t, "43.20", inv.TaxAmount.StringFixed(2))
	require.Equal(t, "283.20", inv.Total.StringFixed(2))
	require.Len(t, inv.Items, 2)
}
