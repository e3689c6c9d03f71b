package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"invoiceapp/internal/database"
	"invoiceapp/internal/model"
	"invoiceapp/internal/repository"
)

func newRepo(t *testing.T) (repository.InvoiceRepository, repository.TransactionManager) {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)

	return repository.NewInvoiceRepository(db), repository.NewTransactionManager(db)
}

func storedInvoice(invoiceNo string) *model.Invoice {
	return &model.Invoice{
		InvoiceNo:      invoiceNo,
		Date:           "2024-03-15",
		CustomerName:   "Acme Traders",
		TaxRatePercent: decimal.RequireFromString("18"),
		Subtotal:       decimal.RequireFromString("240"),
		TaxAmount:      decimal.RequireFromString("43.20"),
		Total:          decimal.RequireFromString("283.20"),
		Items: []model.LineItem{
			{InvoiceNo: invoiceNo, Position: 0, Name: "Pouch A", Quantity: decimal.NewFromInt(10), UnitRate: decimal.NewFromInt(5), Amount: decimal.NewFromInt(50)},
			{InvoiceNo: invoiceNo, Position: 1, Name: "Pouch B", Quantity: decimal.NewFromInt(2), UnitRate: decimal.NewFromInt(100), Discount: decimal.NewFromInt(10), Amount: decimal.NewFromInt(190)},
		},
	}
}

func TestFindByNumber_ItemOrder(t *testing.T) {
	t.Parallel()

	repo, _ := newRepo(t)
	ctx := context.Background()

	inv := storedInvoice("INV-20240315-0001")
	// Present the rows out of order; position decides the read-back order.
	inv.Items[0], inv.Items[1] = inv.Items[1], inv.Items[0]
	require.NoError(t, repo.Create(ctx, inv))

	stored, err := repo.FindByNumber(ctx, "INV-20240315-0001")
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	require.Equal(t, "Pouch A", stored.Items[0].Name)
	require.Equal(t, "Pouch B", stored.Items[1].Name)
}

func TestFindByNumber_NotFound(t *testing.T) {
	t.Parallel()

	repo, _ := newRepo(t)

	_, err := repo.FindByNumber(context.Background(), "INV-20240315-0404")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExistsAndDelete(t *testing.T) {
	t.Parallel()

	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, storedInvoice("INV-20240315-0001")))

	ok, err := repo.Exists(ctx, "INV-20240315-0001")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.DeleteByNumber(ctx, "INV-20240315-0001"))

	ok, err = repo.Exists(ctx, "INV-20240315-0001")
	require.NoError(t, err)
	require.False(t, ok)

	// Item rows go with the invoice row.
	stored, err := repo.FindByNumber(ctx, "INV-20240315-0001")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Nil(t, stored)
}

func TestLastNumberForPrefix(t *testing.T) {
	t.Parallel()

	repo, _ := newRepo(t)
	ctx := context.Background()

	last, err := repo.LastNumberForPrefix(ctx, "INV-20240315-")
	require.NoError(t, err)
	require.Empty(t, last)

	require.NoError(t, repo.Create(ctx, storedInvoice("INV-20240315-0002")))
	require.NoError(t, repo.Create(ctx, storedInvoice("INV-20240315-0011")))
	require.NoError(t, repo.Create(ctx, storedInvoice("INV-20240314-0099")))

	last, err = repo.LastNumberForPrefix(ctx, "INV-20240315-")
	require.NoError(t, err)
	require.Equal(t, "INV-20240315-0011", last)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	t.Parallel()

	repo, txManager := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, storedInvoice("INV-20240315-0001")))

	sentinel := errors.New("abort")
	err := txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repo.DeleteByNumber(txCtx, "INV-20240315-0001"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// The delete never became visible.
	stored, err := repo.FindByNumber(ctx, "INV-20240315-0001")
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
}
