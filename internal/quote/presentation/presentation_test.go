package presentation

import (
	"testing"
	"time"

	"github.com/cabinetworks/quoteflow/internal/pricing"
	"github.com/cabinetworks/quoteflow/internal/quote/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureQuote() (domain.Quote, []domain.QuoteItem) {
	msrp := 200.0
	quote := domain.Quote{
		QuoteNumber:        "Q-2026-0001",
		Status:             domain.StatusDraft,
		PricingMethod:      domain.MethodMarkup,
		WholesaleCost:      1000,
		MsrpTotal:          2000,
		ClientCabinetPrice: 1400,
		InstallationFee:    200,
		MiscExpenses:       50,
		ClientSubtotal:     1650,
		TaxRate:            0.0875,
		TaxAmount:          144.375,
		Total:              1794.375,
		CreatedAt:          time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		ExpiresAt:          time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
	}
	items := []domain.QuoteItem{
		{ProductCode: "B12", ProductName: "Base 12", Quantity: 10, UnitPrice: 100, Msrp: &msrp, LineTotal: 1000},
	}
	return quote, items
}

func TestProjectClientView(t *testing.T) {
	quote, items := fixtureQuote()

	model := Project(quote, items, ViewClient, pricing.DefaultPolicy())

	require.NotNil(t, model.DisplayMsrp)
	require.NotNil(t, model.DisplaySavings)
	require.NotNil(t, model.PackagePrice)

	// 2000 + 1.5*(200+50) = 2375, above the 1650*1.15 floor.
	assert.Equal(t, 2375.0, *model.DisplayMsrp)
	assert.Equal(t, 725.0, *model.DisplaySavings)
	assert.Equal(t, 1650.0, *model.PackagePrice)
	assert.Equal(t, 144.38, model.TaxAmount)
	assert.Equal(t, 1794.38, model.Total)

	assert.Nil(t, model.WholesaleCost, "client view must not expose wholesale cost")
	assert.Nil(t, model.Profit)
	assert.Nil(t, model.InstallationFee, "fees are bundled into the package price")
	assert.Nil(t, model.MiscExpenses)
	assert.Nil(t, model.ClientSubtotal)
	assert.False(t, model.BelowCost)

	require.Len(t, model.Items, 1)
	assert.Equal(t, 200.0, model.Items[0].UnitPrice, "client lines are priced at MSRP")
	assert.Equal(t, 2000.0, model.Items[0].LineTotal)
}

func TestProjectInstallerView(t *testing.T) {
	quote, items := fixtureQuote()

	model := Project(quote, items, ViewInstaller, pricing.DefaultPolicy())

	require.NotNil(t, model.WholesaleCost)
	require.NotNil(t, model.Profit)
	require.NotNil(t, model.MarginPercent)

	assert.Equal(t, 1000.0, *model.WholesaleCost)
	assert.Equal(t, 1400.0, *model.ClientCabinetPrice)
	assert.Equal(t, 200.0, *model.InstallationFee)
	assert.Equal(t, 50.0, *model.MiscExpenses)
	assert.Equal(t, 1650.0, *model.ClientSubtotal)
	assert.Equal(t, 650.0, *model.Profit)
	assert.Equal(t, 39.39, *model.MarginPercent)
	assert.False(t, model.BelowCost)

	assert.Nil(t, model.DisplayMsrp)
	assert.Nil(t, model.DisplaySavings)

	require.Len(t, model.Items, 1)
	assert.Equal(t, 100.0, model.Items[0].UnitPrice, "installer lines show wholesale pricing")
}

func TestProjectBelowCostWarning(t *testing.T) {
	quote, items := fixtureQuote()
	quote.PricingMethod = domain.MethodFixedPrice
	quote.ClientCabinetPrice = 800
	quote.ClientSubtotal = 800
	quote.TaxAmount = 70
	quote.Total = 870

	model := Project(quote, items, ViewInstaller, pricing.DefaultPolicy())

	require.NotNil(t, model.Profit)
	assert.Equal(t, -200.0, *model.Profit)
	assert.True(t, model.BelowCost)
}

func TestProjectSavingsFloorKeepsSavingsPositive(t *testing.T) {
	quote, items := fixtureQuote()
	// MSRP barely above wholesale: the raw display MSRP would undercut
	// the subtotal, so the floor kicks in.
	quote.MsrpTotal = 1100

	model := Project(quote, items, ViewClient, pricing.DefaultPolicy())

	require.NotNil(t, model.DisplayMsrp)
	assert.Equal(t, 1897.5, *model.DisplayMsrp)
	assert.Equal(t, 247.5, *model.DisplaySavings)
	assert.Greater(t, *model.DisplaySavings, 0.0)
}

func TestParseView(t *testing.T) {
	view, err := ParseView(" Client ")
	require.NoError(t, err)
	assert.Equal(t, ViewClient, view)

	view, err = ParseView("installer")
	require.NoError(t, err)
	assert.Equal(t, ViewInstaller, view)

	_, err = ParseView("internal")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$1,234.56", Money(1234.56))
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "$1,000,000.00", Money(1e6))
	assert.Equal(t, "($200.00)", Money(-200))
}
