package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a customer-facing billing document. The three derived totals are
// stored as computed at save time, not recomputed on read.
type Invoice struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNo       string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`
	Date            string          `gorm:"type:varchar(10);not null" json:"date"` // YYYY-MM-DD
	CustomerName    string          `gorm:"type:varchar(120);not null" json:"customer_name"`
	CustomerAddress string          `gorm:"type:text" json:"customer_address"`
	CustomerContact string          `gorm:"type:varchar(60)" json:"customer_contact"`
	CustomerTaxID   string          `gorm:"type:varchar(30)" json:"customer_tax_id"`
	TaxRatePercent  decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"tax_rate_percent"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"tax_amount"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
	Items           []LineItem      `gorm:"foreignKey:InvoiceNo;references:InvoiceNo" json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// LineItem is one billable row on an invoice. Position preserves the order the
// caller entered the rows in; Amount is the stored derived line value.
type LineItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNo string          `gorm:"type:varchar(30);not null;index" json:"invoice_no"`
	Position  int             `gorm:"not null" json:"position"`
	Name      string          `gorm:"type:text;not null" json:"name"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitRate  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_rate"`
	Discount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"` // absolute, not percent
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
}

// BeforeCreate assigns a uuid primary key. Done in the hook rather than a
// column default so the same schema works on SQLite and Postgres.
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (li *LineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}
