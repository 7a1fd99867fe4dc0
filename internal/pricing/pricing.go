// Package pricing computes every derived figure on a quote: wholesale
// cost, client-facing price, tax, total, profit, and the MSRP-based
// savings display values. All functions are pure; validation of inputs
// happens at the service boundary, not here.
package pricing

import "math"

// Item is the minimal line-item view the engine needs. Msrp is nil when
// the catalog carries no retail reference for the product; the unit
// price then stands in for it and the line shows no savings.
type Item struct {
	UnitPrice float64
	Msrp      *float64
	Quantity  int64
}

// Method selects how the client cabinet price is derived. Exactly one
// variant is active: a markup percentage over wholesale, or a fixed
// price supplied by the installer.
type Method struct {
	kind    methodKind
	percent float64
	amount  float64
}

type methodKind uint8

const (
	methodMarkup methodKind = iota
	methodFixed
)

// Markup derives the client cabinet price as wholesale * (1 + percent/100).
func Markup(percent float64) Method {
	return Method{kind: methodMarkup, percent: percent}
}

// FixedPrice uses the supplied amount as the client cabinet price. The
// amount is unconstrained relative to wholesale cost; a below-cost
// price is flagged downstream, never rejected.
func FixedPrice(amount float64) Method {
	return Method{kind: methodFixed, amount: amount}
}

// IsMarkup reports whether the method is markup-based, and the percent
// when it is.
func (m Method) IsMarkup() (float64, bool) {
	if m.kind == methodMarkup {
		return m.percent, true
	}
	return 0, false
}

// FixedAmount reports the override amount when the method is a fixed price.
func (m Method) FixedAmount() (float64, bool) {
	if m.kind == methodFixed {
		return m.amount, true
	}
	return 0, false
}

// Policy holds the tunables of the client-facing savings display.
// MarketRateMultiplier scales the actual installation/misc fees up to a
// "market rate" estimate; SavingsFloor is the minimum ratio of
// displayed MSRP to client subtotal.
type Policy struct {
	MarketRateMultiplier float64
	SavingsFloor         float64
}

// DefaultPolicy mirrors the observed production values: installation is
// presented at 1.5x the actual fee and the displayed MSRP never drops
// below 115% of the client subtotal.
func DefaultPolicy() Policy {
	return Policy{
		MarketRateMultiplier: 1.5,
		SavingsFloor:         1.15,
	}
}

// WholesaleCost sums unitPrice * quantity across items with no
// intermediate rounding.
func WholesaleCost(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return sum
}

// MsrpTotal sums msrp * quantity, treating a missing MSRP as equal to
// the unit price.
func MsrpTotal(items []Item) float64 {
	var sum float64
	for _, it := range items {
		msrp := it.UnitPrice
		if it.Msrp != nil {
			msrp = *it.Msrp
		}
		sum += msrp * float64(it.Quantity)
	}
	return sum
}

// ClientCabinetPrice derives the price charged for cabinets from the
// wholesale cost and the active pricing method.
func ClientCabinetPrice(wholesaleCost float64, method Method) float64 {
	if pct, ok := method.IsMarkup(); ok {
		return wholesaleCost * (1 + pct/100)
	}
	amount, _ := method.FixedAmount()
	return amount
}

// Totals is the client-facing money on a quote. Tax is computed on the
// client subtotal (cabinet price + installation + misc), never on
// wholesale cost.
type Totals struct {
	ClientSubtotal float64
	TaxAmount      float64
	Total          float64
}

// ComputeTotals applies installation, misc, and tax to the client
// cabinet price.
func ComputeTotals(clientCabinetPrice, installationFee, miscExpenses, taxRate float64) Totals {
	subtotal := clientCabinetPrice + installationFee + miscExpenses
	tax := subtotal * taxRate
	return Totals{
		ClientSubtotal: subtotal,
		TaxAmount:      tax,
		Total:          subtotal + tax,
	}
}

// Profit is what remains of the client subtotal after the wholesale
// cost. Negative profit means the quote is below cost.
func Profit(clientSubtotal, wholesaleCost float64) float64 {
	return clientSubtotal - wholesaleCost
}

// BelowCost reports whether a quote loses money.
func BelowCost(profit float64) bool {
	return profit < 0
}

// MarginPercent is profit relative to the client subtotal, as a
// percentage. Zero subtotal yields zero margin.
func MarginPercent(profit, clientSubtotal float64) float64 {
	if clientSubtotal == 0 {
		return 0
	}
	return profit / clientSubtotal * 100
}

// DisplayMsrp is the retail reference shown to the client: the catalog
// MSRP total plus a market-rate estimate of installation and misc,
// floored so the quote always reads as at least the policy's minimum
// discount. The floor applies even when the true MSRP is below the
// client price, so the displayed savings figure is positive regardless
// of actual margin.
func DisplayMsrp(msrpTotal, installationFee, miscExpenses, clientSubtotal float64, policy Policy) float64 {
	display := msrpTotal + policy.MarketRateMultiplier*(installationFee+miscExpenses)
	floor := clientSubtotal * policy.SavingsFloor
	if display < floor {
		display = floor
	}
	return display
}

// DisplaySavings is the gap between the displayed MSRP and what the
// client actually pays before tax.
func DisplaySavings(displayMsrp, clientSubtotal float64) float64 {
	return displayMsrp - clientSubtotal
}

// Round2 rounds to currency precision. Applied only at the display and
// persistence formatting boundary, never mid-computation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
