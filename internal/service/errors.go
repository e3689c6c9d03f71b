package service

import (
	"errors"
	"fmt"

	"invoiceapp/internal/model"
)

// ErrSequenceExhausted means more than 9999 invoices were issued on one
// calendar day. The number format has no room for a fifth digit, so this is
// surfaced instead of wrapping the sequence.
var ErrSequenceExhausted = errors.New("daily invoice sequence exhausted (9999 reached)")

// ValidationError reports why an invoice is not fit for saving or rendering.
// Validation runs before any persistence or render attempt.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// DuplicateKeyError is returned by Save when the invoice number is already
// stored. Existing carries the stored record so the caller can show what an
// overwrite would replace before confirming.
type DuplicateKeyError struct {
	Existing *model.Invoice
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("invoice %s already exists", e.Existing.InvoiceNo)
}
