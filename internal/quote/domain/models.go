package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cabinetworks/quoteflow/internal/pricing"
)

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusSent     Status = "SENT"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// PricingMethod tags which cabinet-price rule a quote was saved with.
type PricingMethod string

const (
	MethodMarkup     PricingMethod = "markup"
	MethodFixedPrice PricingMethod = "fixed_price"
)

// Quote is a priced snapshot. Every money field is computed once at
// save time and never rederived on read; the stored figures are the
// quote the customer was shown.
type Quote struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	QuoteNumber string       `gorm:"type:text;not null;uniqueIndex:ux_quotes_number" json:"quote_number"`
	NumberYear  int          `gorm:"not null;uniqueIndex:ux_quotes_year_seq,priority:1" json:"-"`
	NumberSeq   int64        `gorm:"not null;uniqueIndex:ux_quotes_year_seq,priority:2" json:"-"`

	CustomerID   snowflake.ID `gorm:"not null;index" json:"customer_id"`
	CollectionID snowflake.ID `gorm:"not null" json:"collection_id"`
	StyleID      snowflake.ID `gorm:"not null" json:"style_id"`
	Status       Status       `gorm:"type:text;not null;index" json:"status"`

	PricingMethod PricingMethod `gorm:"type:text;not null" json:"pricing_method"`
	MarkupPercent *float64      `json:"markup_percent,omitempty"`

	WholesaleCost      float64 `gorm:"not null" json:"wholesale_cost"`
	MsrpTotal          float64 `gorm:"not null" json:"msrp_total"`
	ClientCabinetPrice float64 `gorm:"not null" json:"client_cabinet_price"`
	InstallationFee    float64 `gorm:"not null;default:0" json:"installation_fee"`
	MiscExpenses       float64 `gorm:"not null;default:0" json:"misc_expenses"`
	ClientSubtotal     float64 `gorm:"not null" json:"client_subtotal"`
	TaxRate            float64 `gorm:"type:numeric(6,4);not null" json:"tax_rate"`
	TaxAmount          float64 `gorm:"not null" json:"tax_amount"`
	Total              float64 `gorm:"not null" json:"total"`

	Notes     string     `gorm:"type:text" json:"notes,omitempty"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Quote) TableName() string { return "quotes" }

// Method reconstructs the pricing rule the quote was saved with.
func (q *Quote) Method() pricing.Method {
	if q.PricingMethod == MethodFixedPrice {
		return pricing.FixedPrice(q.ClientCabinetPrice)
	}
	percent := 0.0
	if q.MarkupPercent != nil {
		percent = *q.MarkupPercent
	}
	return pricing.Markup(percent)
}

// Expired reports whether the quote's validity window has passed.
// Advisory only; no operation is blocked on it.
func (q *Quote) Expired(now time.Time) bool {
	return now.After(q.ExpiresAt)
}

type QuoteItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	QuoteID     snowflake.ID `gorm:"not null;index" json:"quote_id"`
	ProductID   snowflake.ID `gorm:"not null" json:"product_id"`
	ProductCode string       `gorm:"type:text;not null" json:"product_code"`
	ProductName string       `gorm:"not null" json:"product_name"`
	Quantity    int64        `gorm:"not null" json:"quantity"`
	UnitPrice   float64      `gorm:"not null" json:"unit_price"`
	Msrp        *float64     `json:"msrp,omitempty"`
	LineTotal   float64      `gorm:"not null" json:"line_total"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (QuoteItem) TableName() string { return "quote_items" }
