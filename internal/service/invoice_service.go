package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"invoiceapp/internal/calc"
	"invoiceapp/internal/model"
	"invoiceapp/internal/repository"
)

const (
	numberPrefix = "INV-"
	dateLayout   = "2006-01-02"
	maxDailySeq  = 9999
)

// InvoiceService is the contract the presentation layer calls. It validates
// invoice values, derives their totals, generates invoice numbers and drives
// the confirm-to-overwrite save flow.
type InvoiceService interface {
	ComputeTotals(invoice *model.Invoice) calc.Totals
	NextInvoiceNumber(ctx context.Context) (string, error)
	Save(ctx context.Context, invoice *model.Invoice) error
	SaveOverwrite(ctx context.Context, invoice *model.Invoice) error
	Get(ctx context.Context, invoiceNo string) (*model.Invoice, error)
	Validate(invoice *model.Invoice) error
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	txManager   repository.TransactionManager
	now         func() time.Time
}

func NewInvoiceService(invoiceRepo repository.InvoiceRepository, txManager repository.TransactionManager) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		txManager:   txManager,
		now:         time.Now,
	}
}

// ComputeTotals derives the line amounts and the three invoice totals and
// stores them on the value. Pure apart from mutating its argument; callers may
// invoke it on drafts as often as they like.
func (s *invoiceService) ComputeTotals(invoice *model.Invoice) calc.Totals {
	for i := range invoice.Items {
		it := &invoice.Items[i]
		it.Position = i
		it.InvoiceNo = invoice.InvoiceNo
		it.Amount = calc.ItemAmount(it.Quantity, it.UnitRate, it.Discount)
	}

	totals := calc.InvoiceTotals(invoice.Items, invoice.TaxRatePercent)
	invoice.Subtotal = totals.Subtotal
	invoice.TaxAmount = totals.TaxAmount
	invoice.Total = totals.Total
	return totals
}

// NextInvoiceNumber produces INV-<YYYYMMDD>-<seq>, where seq is one above the
// highest sequence already stored for today, starting at 0001. It reads but
// never reserves: two calls without an intervening save return the same value.
func (s *invoiceService) NextInvoiceNumber(ctx context.Context) (string, error) {
	prefix := numberPrefix + s.now().Format("20060102") + "-"

	last, err := s.invoiceRepo.LastNumberForPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to look up last invoice number: %w", err)
	}

	seq := 0
	if last != "" {
		parts := strings.Split(last, "-")
		seq, err = strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			return "", fmt.Errorf("malformed invoice number %q in store: %w", last, err)
		}
	}

	if seq >= maxDailySeq {
		return "", ErrSequenceExhausted
	}

	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}

// Save validates, derives totals and inserts the invoice. If the number is
// already stored it returns a DuplicateKeyError carrying the existing record
// and leaves the store untouched; the caller confirms intent and retries via
// SaveOverwrite.
func (s *invoiceService) Save(ctx context.Context, invoice *model.Invoice) error {
	if err := s.Validate(invoice); err != nil {
		return err
	}
	s.ComputeTotals(invoice)

	existing, err := s.invoiceRepo.FindByNumber(ctx, invoice.InvoiceNo)
	if err == nil {
		return &DuplicateKeyError{Existing: existing}
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check for existing invoice: %w", err)
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

// SaveOverwrite replaces whatever is stored under the invoice number with the
// given value, items included. Delete and insert run in one transaction so a
// reader never sees a stale or mixed item set.
func (s *invoiceService) SaveOverwrite(ctx context.Context, invoice *model.Invoice) error {
	if err := s.Validate(invoice); err != nil {
		return err
	}
	s.ComputeTotals(invoice)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.DeleteByNumber(txCtx, invoice.InvoiceNo); err != nil {
			return fmt.Errorf("failed to remove previous invoice: %w", err)
		}
		if err := s.invoiceRepo.Create(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to store invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to overwrite invoice %s: %w", invoice.InvoiceNo, err)
	}
	return nil
}

func (s *invoiceService) Get(ctx context.Context, invoiceNo string) (*model.Invoice, error) {
	return s.invoiceRepo.FindByNumber(ctx, invoiceNo)
}

// Validate enforces the preconditions for persisting or rendering an invoice.
// A zero-item invoice is a legal draft but fails here.
func (s *invoiceService) Validate(invoice *model.Invoice) error {
	if strings.TrimSpace(invoice.InvoiceNo) == "" {
		return &ValidationError{Reason: "invoice number is missing"}
	}
	if _, err := time.Parse(dateLayout, invoice.Date); err != nil {
		return &ValidationError{Reason: "date must be in YYYY-MM-DD format"}
	}
	if strings.TrimSpace(invoice.CustomerName) == "" {
		return &ValidationError{Reason: "customer name is required"}
	}
	if len(invoice.Items) == 0 {
		return &ValidationError{Reason: "add at least one item"}
	}
	if invoice.TaxRatePercent.IsNegative() {
		return &ValidationError{Reason: "tax rate must not be negative"}
	}
	for i, it := range invoice.Items {
		if strings.TrimSpace(it.Name) == "" {
			return &ValidationError{Reason: fmt.Sprintf("item %d: description is required", i+1)}
		}
		if !it.Quantity.IsPositive() {
			return &ValidationError{Reason: fmt.Sprintf("item %d: quantity must be greater than zero", i+1)}
		}
		if it.UnitRate.IsNegative() {
			return &ValidationError{Reason: fmt.Sprintf("item %d: rate must not be negative", i+1)}
		}
		if it.Discount.IsNegative() {
			return &ValidationError{Reason: fmt.Sprintf("item %d: discount must not be negative", i+1)}
		}
	}
	return nil
}
