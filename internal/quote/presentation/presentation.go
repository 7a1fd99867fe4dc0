// Package presentation projects a persisted quote snapshot into one of
// the two audiences. The snapshot itself carries every figure; this
// package only selects, derives display values, and redacts. The
// client view must never leak wholesale cost, profit, or the fee
// breakdown.
package presentation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cabinetworks/quoteflow/internal/pricing"
	"github.com/cabinetworks/quoteflow/internal/quote/domain"
)

type View string

const (
	ViewClient    View = "client"
	ViewInstaller View = "installer"
)

var ErrUnknownView = errors.New("unknown_view")

func ParseView(raw string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(raw))) {
	case ViewClient:
		return ViewClient, nil
	case ViewInstaller:
		return ViewInstaller, nil
	}
	return "", ErrUnknownView
}

type LineItem struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// RenderModel is the audience-specific shape of a quote. Fields that
// belong to only one audience are pointers and stay nil for the other.
type RenderModel struct {
	View        View       `json:"view"`
	QuoteNumber string     `json:"quote_number"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`

	Items []LineItem `json:"items"`

	// Client-only figures.
	DisplayMsrp    *float64 `json:"display_msrp,omitempty"`
	DisplaySavings *float64 `json:"display_savings,omitempty"`
	PackagePrice   *float64 `json:"package_price,omitempty"`

	// Installer-only figures.
	WholesaleCost      *float64 `json:"wholesale_cost,omitempty"`
	ClientCabinetPrice *float64 `json:"client_cabinet_price,omitempty"`
	InstallationFee    *float64 `json:"installation_fee,omitempty"`
	MiscExpenses       *float64 `json:"misc_expenses,omitempty"`
	ClientSubtotal     *float64 `json:"client_subtotal,omitempty"`
	Profit             *float64 `json:"profit,omitempty"`
	MarginPercent      *float64 `json:"margin_percent,omitempty"`
	BelowCost          bool     `json:"below_cost,omitempty"`

	TaxRate   float64 `json:"tax_rate"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// Project builds the audience view from the stored snapshot. Rounding
// to cents happens here and nowhere earlier.
func Project(quote domain.Quote, items []domain.QuoteItem, view View, policy pricing.Policy) RenderModel {
	model := RenderModel{
		View:        view,
		QuoteNumber: quote.QuoteNumber,
		Status:      string(quote.Status),
		CreatedAt:   quote.CreatedAt,
		ExpiresAt:   quote.ExpiresAt,
		SentAt:      quote.SentAt,
		Notes:       quote.Notes,
		TaxRate:     quote.TaxRate,
		TaxAmount:   pricing.Round2(quote.TaxAmount),
		Total:       pricing.Round2(quote.Total),
	}

	switch view {
	case ViewInstaller:
		model.Items = installerItems(items)

		wholesale := pricing.Round2(quote.WholesaleCost)
		cabinet := pricing.Round2(quote.ClientCabinetPrice)
		installation := pricing.Round2(quote.InstallationFee)
		misc := pricing.Round2(quote.MiscExpenses)
		subtotal := pricing.Round2(quote.ClientSubtotal)

		profit := pricing.Round2(pricing.Profit(quote.ClientSubtotal, quote.WholesaleCost))
		margin := pricing.Round2(pricing.MarginPercent(profit, quote.ClientSubtotal))

		model.WholesaleCost = &wholesale
		model.ClientCabinetPrice = &cabinet
		model.InstallationFee = &installation
		model.MiscExpenses = &misc
		model.ClientSubtotal = &subtotal
		model.Profit = &profit
		model.MarginPercent = &margin
		model.BelowCost = pricing.BelowCost(profit)

	default:
		model.Items = clientItems(items)

		displayMsrp := pricing.Round2(pricing.DisplayMsrp(
			quote.MsrpTotal,
			quote.InstallationFee,
			quote.MiscExpenses,
			quote.ClientSubtotal,
			policy,
		))
		savings := pricing.Round2(pricing.DisplaySavings(displayMsrp, pricing.Round2(quote.ClientSubtotal)))
		pkg := pricing.Round2(quote.ClientSubtotal)

		model.DisplayMsrp = &displayMsrp
		model.DisplaySavings = &savings
		model.PackagePrice = &pkg
	}

	return model
}

// clientItems prices each line at MSRP so the sheet lines up with the
// displayed market figure. A product without an MSRP keeps its unit
// price.
func clientItems(items []domain.QuoteItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		unit := item.UnitPrice
		if item.Msrp != nil {
			unit = *item.Msrp
		}
		out = append(out, LineItem{
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   pricing.Round2(unit),
			LineTotal:   pricing.Round2(unit * float64(item.Quantity)),
		})
	}
	return out
}

func installerItems(items []domain.QuoteItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, LineItem{
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   pricing.Round2(item.UnitPrice),
			LineTotal:   pricing.Round2(item.LineTotal),
		})
	}
	return out
}

// Money renders a dollar figure for documents, negative values in
// accounting parentheses.
func Money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("($%s)", group(math.Abs(v)))
	}
	return "$" + group(v)
}

func group(v float64) string {
	s := fmt.Sprintf("%.2f", pricing.Round2(v))
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + frac
}
