package repository

import (
	"context"
	"errors"

	"invoiceapp/internal/model"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no invoice exists for the requested number.
var ErrNotFound = errors.New("invoice not found")

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByNumber(ctx context.Context, invoiceNo string) (*model.Invoice, error)
	Exists(ctx context.Context, invoiceNo string) (bool, error)
	DeleteByNumber(ctx context.Context, invoiceNo string) error
	LastNumberForPrefix(ctx context.Context, prefix string) (string, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

// FindByNumber reconstructs the full invoice, items in insertion order.
func (r *invoiceRepository) FindByNumber(ctx context.Context, invoiceNo string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := GetDB(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		First(&invoice, "invoice_no = ?", invoiceNo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) Exists(ctx context.Context, invoiceNo string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("invoice_no = ?", invoiceNo).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteByNumber removes the invoice row and every item stored under that
// number. Callers wanting atomicity run this and the subsequent Create inside
// one transaction via the TransactionManager.
func (r *invoiceRepository) DeleteByNumber(ctx context.Context, invoiceNo string) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("invoice_no = ?", invoiceNo).Delete(&model.LineItem{}).Error; err != nil {
		return err
	}
	return db.Where("invoice_no = ?", invoiceNo).Delete(&model.Invoice{}).Error
}

// LastNumberForPrefix returns the highest stored invoice number starting with
// prefix, or "" when none exist. Numbers share a fixed-width suffix, so the
// lexicographic maximum is the numeric maximum.
func (r *invoiceRepository) LastNumberForPrefix(ctx context.Context, prefix string) (string, error) {
	var invoice model.Invoice
	err := GetDB(ctx, r.db).
		Where("invoice_no LIKE ?", prefix+"%").
		Order("invoice_no desc").
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return invoice.InvoiceNo, nil
}
