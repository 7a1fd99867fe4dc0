package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fp(v float64) *float64 { return &v }

func TestWholesaleCost_ExactSum(t *testing.T) {
	items := []Item{
		{UnitPrice: 199.99, Quantity: 3},
		{UnitPrice: 45.5, Quantity: 2},
		{UnitPrice: 0.1, Quantity: 10},
	}

	assert.InDelta(t, 199.99*3+45.5*2+0.1*10, WholesaleCost(items), 1e-9)
	assert.Equal(t, 0.0, WholesaleCost(nil))
}

func TestMsrpTotal_FallsBackToUnitPrice(t *testing.T) {
	items := []Item{
		{UnitPrice: 100, Msrp: fp(150), Quantity: 2},
		{UnitPrice: 80, Msrp: nil, Quantity: 1},
	}

	assert.InDelta(t, 150*2+80*1, MsrpTotal(items), 1e-9)
}

func TestClientCabinetPrice_Markup(t *testing.T) {
	assert.InDelta(t, 1400, ClientCabinetPrice(1000, Markup(40)), 1e-9)
	assert.InDelta(t, 1000, ClientCabinetPrice(1000, Markup(0)), 1e-9)
}

func TestClientCabinetPrice_FixedOverride(t *testing.T) {
	// May be below wholesale; the engine passes it through unchanged.
	assert.InDelta(t, 800, ClientCabinetPrice(1000, FixedPrice(800)), 1e-9)
}

func TestComputeTotals_TaxOnClientSubtotal(t *testing.T) {
	// wholesale=$1000, markup=40%, installation=$200, misc=$50, tax=8.75%
	cabinet := ClientCabinetPrice(1000, Markup(40))
	got := ComputeTotals(cabinet, 200, 50, 0.0875)

	assert.InDelta(t, 1400, cabinet, 1e-9)
	assert.InDelta(t, 1650, got.ClientSubtotal, 1e-9)
	assert.InDelta(t, 144.375, got.TaxAmount, 1e-9)
	assert.InDelta(t, 1794.375, got.Total, 1e-9)

	profit := Profit(got.ClientSubtotal, 1000)
	assert.InDelta(t, 650, profit, 1e-9)
	assert.False(t, BelowCost(profit))
}

func TestProfit_BelowCost(t *testing.T) {
	// wholesale=$1000, fixed client price $800, no fees
	got := ComputeTotals(ClientCabinetPrice(1000, FixedPrice(800)), 0, 0, 0)

	assert.InDelta(t, 800, got.ClientSubtotal, 1e-9)
	profit := Profit(got.ClientSubtotal, 1000)
	assert.InDelta(t, -200, profit, 1e-9)
	assert.True(t, BelowCost(profit))
}

func TestDisplayMsrp_FloorGuaranteesSavings(t *testing.T) {
	policy := DefaultPolicy()

	// Actual MSRP equal to wholesale, client price well above it: the
	// floor keeps the displayed MSRP at 115% of the subtotal.
	display := DisplayMsrp(100, 0, 0, 150, policy)
	assert.GreaterOrEqual(t, display, 150*1.15)
	assert.InDelta(t, 172.5, display, 1e-9)
	assert.Greater(t, DisplaySavings(display, 150), 0.0)
}

func TestDisplayMsrp_MarketRateFees(t *testing.T) {
	policy := DefaultPolicy()

	// MSRP total comfortably above the floor: installation and misc are
	// presented at 1.5x the actual fees.
	display := DisplayMsrp(5000, 200, 50, 3000, policy)
	assert.InDelta(t, 5000+1.5*250, display, 1e-9)
}

func TestMarginPercent(t *testing.T) {
	assert.InDelta(t, 39.393939, MarginPercent(650, 1650), 1e-4)
	assert.Equal(t, 0.0, MarginPercent(100, 0))
}

func TestMethod_ExactlyOneActive(t *testing.T) {
	m := Markup(40)
	pct, ok := m.IsMarkup()
	assert.True(t, ok)
	assert.Equal(t, 40.0, pct)
	_, fixed := m.FixedAmount()
	assert.False(t, fixed)

	f := FixedPrice(1200)
	amount, ok := f.FixedAmount()
	assert.True(t, ok)
	assert.Equal(t, 1200.0, amount)
	_, markup := f.IsMarkup()
	assert.False(t, markup)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 144.38, Round2(144.375))
	assert.Equal(t, 1794.38, Round2(1794.375))
	assert.Equal(t, -200.0, Round2(-200))
}
