package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/cabinetworks/quoteflow/internal/catalog/domain"
	catalogrepo "github.com/cabinetworks/quoteflow/internal/catalog/repository"
	catalogservice "github.com/cabinetworks/quoteflow/internal/catalog/service"
	"github.com/cabinetworks/quoteflow/internal/clock"
	"github.com/cabinetworks/quoteflow/internal/config"
	customerdomain "github.com/cabinetworks/quoteflow/internal/customer/domain"
	customerrepo "github.com/cabinetworks/quoteflow/internal/customer/repository"
	customerservice "github.com/cabinetworks/quoteflow/internal/customer/service"
	"github.com/cabinetworks/quoteflow/internal/quote/domain"
	"github.com/cabinetworks/quoteflow/internal/quote/repository"
	settingsdomain "github.com/cabinetworks/quoteflow/internal/settings/domain"
	settingsrepo "github.com/cabinetworks/quoteflow/internal/settings/repository"
	settingsservice "github.com/cabinetworks/quoteflow/internal/settings/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	svc        *Service
	db         *gorm.DB
	clk        *clock.FakeClock
	node       *snowflake.Node
	customerID string
	products   []catalogdomain.Product
	collection catalogdomain.Collection
	style      catalogdomain.Style
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&catalogdomain.Product{},
		&catalogdomain.Collection{},
		&catalogdomain.Style{},
		&settingsdomain.CompanySettings{},
		&domain.Quote{},
		&domain.QuoteItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	clk := clock.NewFakeClock(time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC))

	catalogSvc := catalogservice.New(catalogservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  catalogrepo.Provide(),
	})
	customerSvc := customerservice.New(customerservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  customerrepo.Provide(),
	})
	settingsSvc := settingsservice.New(settingsservice.Params{
		DB:   db,
		Log:  log,
		Repo: settingsrepo.Provide(),
	})

	svc := &Service{
		db:       db,
		log:      log,
		genID:    node,
		clock:    clk,
		policy:   config.StaticPricingPolicy(config.DefaultPricingPolicy()),
		repo:     repository.Provide(),
		catalog:  catalogSvc,
		customer: customerSvc,
		settings: settingsSvc,
	}

	f := &fixture{svc: svc, db: db, clk: clk, node: node}
	f.seed(t, catalogSvc, customerSvc, settingsSvc)
	return f
}

func (f *fixture) seed(t *testing.T, catalogSvc catalogdomain.Service, customerSvc customerdomain.Service, settingsSvc settingsdomain.Service) {
	t.Helper()
	ctx := context.Background()

	f.collection = catalogdomain.Collection{ID: f.node.Generate(), Code: "SHAKER", Name: "Shaker"}
	f.style = catalogdomain.Style{ID: f.node.Generate(), Code: "WHT", Name: "White"}
	require.NoError(t, f.db.Create(&f.collection).Error)
	require.NoError(t, f.db.Create(&f.style).Error)

	msrp := 200.0
	specs := []catalogdomain.CreateProductRequest{
		{Code: "B12", Name: "Base Cabinet 12in", CollectionID: f.collection.ID.String(), StyleID: f.style.ID.String(), UnitPrice: 100, Msrp: &msrp},
		{Code: "W30", Name: "Wall Cabinet 30in", CollectionID: f.collection.ID.String(), StyleID: f.style.ID.String(), UnitPrice: 250},
	}
	for _, spec := range specs {
		product, err := catalogSvc.CreateProduct(ctx, spec)
		require.NoError(t, err)
		f.products = append(f.products, product)
	}

	customer, err := customerSvc.Create(ctx, customerdomain.CreateCustomerRequest{
		Name:  "Dana Fisher",
		Email: "dana@example.com",
	})
	require.NoError(t, err)
	f.customerID = customer.ID.String()

	name := "Cabinet Works"
	rate := 0.0875
	_, err = settingsSvc.Update(ctx, settingsdomain.UpdateSettingsRequest{
		CompanyName:    &name,
		DefaultTaxRate: &rate,
	})
	require.NoError(t, err)
}

func (f *fixture) createRequest() domain.CreateQuoteRequest {
	return domain.CreateQuoteRequest{
		CustomerID:   f.customerID,
		CollectionID: f.collection.ID.String(),
		StyleID:      f.style.ID.String(),
		Items: []domain.ItemInput{
			{ProductID: f.products[0].ID.String(), Quantity: 10},
		},
		InstallationFee: 200,
		MiscExpenses:    50,
	}
}

func TestCreateQuoteComputesSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	detail, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	quote := detail.Quote
	assert.Equal(t, "Q-2026-0001", quote.QuoteNumber)
	assert.Equal(t, domain.StatusDraft, quote.Status)
	assert.Equal(t, domain.MethodMarkup, quote.PricingMethod)
	require.NotNil(t, quote.MarkupPercent)
	assert.Equal(t, 40.0, *quote.MarkupPercent)

	assert.Equal(t, 1000.0, quote.WholesaleCost)
	assert.Equal(t, 2000.0, quote.MsrpTotal)
	assert.Equal(t, 1400.0, quote.ClientCabinetPrice)
	assert.Equal(t, 1650.0, quote.ClientSubtotal)
	assert.Equal(t, 0.0875, quote.TaxRate, "default tax rate comes from company settings")
	assert.InDelta(t, 144.375, quote.TaxAmount, 1e-9, "tax applies to the client subtotal, unrounded")
	assert.InDelta(t, 1794.375, quote.Total, 1e-9)

	assert.Equal(t, f.clk.Now().AddDate(0, 0, 30), quote.ExpiresAt)
	assert.Nil(t, quote.SentAt)

	require.Len(t, detail.Items, 1)
	assert.Equal(t, "B12", detail.Items[0].ProductCode)
	assert.Equal(t, 1000.0, detail.Items[0].LineTotal)
}

func TestCreateQuoteNumbersAreSequentialPerYear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	assert.Equal(t, "Q-2026-0001", first.Quote.QuoteNumber)
	assert.Equal(t, "Q-2026-0002", second.Quote.QuoteNumber)

	// A new calendar year restarts the sequence.
	f.clk.Advance(365 * 24 * time.Hour)
	third, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)
	assert.Equal(t, "Q-2027-0001", third.Quote.QuoteNumber)
}

func TestCreateQuoteFixedPriceBelowCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fixed := 800.0
	req := f.createRequest()
	req.ClientCabinetPrice = &fixed
	req.InstallationFee = 0
	req.MiscExpenses = 0

	detail, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	quote := detail.Quote
	assert.Equal(t, domain.MethodFixedPrice, quote.PricingMethod)
	assert.Nil(t, quote.MarkupPercent)
	assert.Equal(t, 800.0, quote.ClientCabinetPrice, "a below-cost override is stored, not rejected")
	assert.Equal(t, 1000.0, quote.WholesaleCost)
	assert.Equal(t, 800.0, quote.ClientSubtotal)
}

func TestCreateQuoteValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.createRequest()
	req.Items = nil
	_, err := f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrEmptyItems)

	req = f.createRequest()
	req.Items[0].Quantity = 0
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	req = f.createRequest()
	markup := 40.0
	fixed := 1500.0
	req.MarkupPercent = &markup
	req.ClientCabinetPrice = &fixed
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)

	req = f.createRequest()
	req.InstallationFee = -1
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidFee)

	req = f.createRequest()
	rate := 1.5
	req.TaxRate = &rate
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidTaxRate)

	req = f.createRequest()
	req.Items[0].ProductID = f.node.Generate().String()
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, catalogdomain.ErrNotFound)
}

func TestUpdateItemsKeepsMethodAndTaxRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	// Swap to the pricier product: wholesale 2*250=500.
	updated, err := f.svc.UpdateItems(ctx, domain.UpdateItemsRequest{
		ID: created.Quote.ID.String(),
		Items: []domain.ItemInput{
			{ProductID: f.products[1].ID.String(), Quantity: 2},
		},
	})
	require.NoError(t, err)

	quote := updated.Quote
	assert.Equal(t, 500.0, quote.WholesaleCost)
	assert.Equal(t, 700.0, quote.ClientCabinetPrice, "markup rederives the cabinet price from the new wholesale")
	assert.Equal(t, 0.0875, quote.TaxRate, "the saved tax rate is kept")
	assert.Equal(t, 950.0, quote.ClientSubtotal, "fees carry over unchanged")

	require.Len(t, updated.Items, 1)
	assert.Equal(t, "W30", updated.Items[0].ProductCode)

	items, err := f.svc.repo.FindItems(ctx, f.db, quote.ID)
	require.NoError(t, err)
	require.Len(t, items, 1, "the old item rows are replaced")
}

func TestUpdateItemsFixedPriceStaysFixed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fixed := 1500.0
	req := f.createRequest()
	req.ClientCabinetPrice = &fixed

	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	updated, err := f.svc.UpdateItems(ctx, domain.UpdateItemsRequest{
		ID: created.Quote.ID.String(),
		Items: []domain.ItemInput{
			{ProductID: f.products[1].ID.String(), Quantity: 4},
		},
	})
	require.NoError(t, err)

	quote := updated.Quote
	assert.Equal(t, 1000.0, quote.WholesaleCost)
	assert.Equal(t, 1500.0, quote.ClientCabinetPrice, "a fixed override does not move with wholesale")
}

func TestUpdateStatusStampsSentAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	f.clk.Advance(2 * time.Hour)
	sentAt := f.clk.Now()

	sent, err := f.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     created.Quote.ID.String(),
		Status: domain.StatusSent,
	})
	require.NoError(t, err)
	require.NotNil(t, sent.Quote.SentAt)
	assert.WithinDuration(t, sentAt, *sent.Quote.SentAt, time.Second)

	// Any transition is allowed and leaving SENT keeps the stamp.
	f.clk.Advance(time.Hour)
	approved, err := f.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     created.Quote.ID.String(),
		Status: domain.StatusApproved,
	})
	require.NoError(t, err)
	require.NotNil(t, approved.Quote.SentAt)
	assert.WithinDuration(t, sentAt, *approved.Quote.SentAt, time.Second)

	back, err := f.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     created.Quote.ID.String(),
		Status: domain.StatusDraft,
	})
	require.NoError(t, err)
	require.NotNil(t, back.Quote.SentAt)

	_, err = f.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     created.Quote.ID.String(),
		Status: "SHIPPED",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDuplicateQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     created.Quote.ID.String(),
		Status: domain.StatusSent,
	})
	require.NoError(t, err)

	f.clk.Advance(48 * time.Hour)

	clone, err := f.svc.Duplicate(ctx, created.Quote.ID.String())
	require.NoError(t, err)

	assert.NotEqual(t, created.Quote.ID, clone.Quote.ID)
	assert.Equal(t, "Q-2026-0002", clone.Quote.QuoteNumber)
	assert.Equal(t, domain.StatusDraft, clone.Quote.Status)
	assert.Nil(t, clone.Quote.SentAt)
	assert.Equal(t, f.clk.Now().AddDate(0, 0, 30), clone.Quote.ExpiresAt)

	// Pricing snapshot carried over verbatim.
	assert.Equal(t, created.Quote.WholesaleCost, clone.Quote.WholesaleCost)
	assert.Equal(t, created.Quote.ClientSubtotal, clone.Quote.ClientSubtotal)
	assert.Equal(t, created.Quote.TaxAmount, clone.Quote.TaxAmount)
	assert.Equal(t, created.Quote.Total, clone.Quote.Total)

	require.Len(t, clone.Items, len(created.Items))
	assert.Equal(t, created.Items[0].ProductCode, clone.Items[0].ProductCode)
	assert.NotEqual(t, created.Items[0].ID, clone.Items[0].ID)
}

func TestDeleteQuoteCascadesItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.Quote.ID.String()))

	_, err = f.svc.Get(ctx, created.Quote.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var count int64
	require.NoError(t, f.db.Model(&domain.QuoteItem{}).
		Where("quote_id = ?", created.Quote.ID).
		Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, f.svc.Delete(ctx, created.Quote.ID.String()), domain.ErrNotFound)
}

func TestListQuotesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)
	f.clk.Advance(time.Minute)
	second, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     second.Quote.ID.String(),
		Status: domain.StatusSent,
	})
	require.NoError(t, err)

	all, err := f.svc.List(ctx, domain.ListQuoteRequest{})
	require.NoError(t, err)
	require.Len(t, all.Quotes, 2)
	assert.Equal(t, second.Quote.ID, all.Quotes[0].ID, "newest first")
	assert.Equal(t, first.Quote.ID, all.Quotes[1].ID)

	drafts, err := f.svc.List(ctx, domain.ListQuoteRequest{Status: domain.StatusDraft})
	require.NoError(t, err)
	require.Len(t, drafts.Quotes, 1)
	assert.Equal(t, first.Quote.ID, drafts.Quotes[0].ID)

	byCustomer, err := f.svc.List(ctx, domain.ListQuoteRequest{CustomerID: f.customerID})
	require.NoError(t, err)
	assert.Len(t, byCustomer.Quotes, 2)

	_, err = f.svc.List(ctx, domain.ListQuoteRequest{Status: "BOGUS"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestQuoteExpiryIsAdvisory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	assert.False(t, created.Quote.Expired(f.clk.Now()))
	f.clk.Advance(31 * 24 * time.Hour)
	assert.True(t, created.Quote.Expired(f.clk.Now()))

	// An expired quote can still move through the lifecycle.
	_, err = f.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     created.Quote.ID.String(),
		Status: domain.StatusApproved,
	})
	assert.NoError(t, err)
}

// staleSequenceRepo hands out an already-claimed sequence on its first
// read so the insert trips the unique index on (number_year,
// number_seq) exactly once.
type staleSequenceRepo struct {
	domain.Repository
	stale     int64
	staleUsed bool
}

func (r *staleSequenceRepo) NextSequence(ctx context.Context, tx *gorm.DB, year int) (int64, error) {
	if !r.staleUsed {
		r.staleUsed = true
		return r.stale, nil
	}
	return r.Repository.NextSequence(ctx, tx, year)
}

func TestCreateQuoteRetriesOnNumberCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Quote.NumberSeq)

	f.svc.repo = &staleSequenceRepo{
		Repository: repository.Provide(),
		stale:      first.Quote.NumberSeq,
	}

	second, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)
	assert.Equal(t, "Q-2026-0002", second.Quote.QuoteNumber)
	assert.Equal(t, int64(2), second.Quote.NumberSeq)

	var quoteCount, itemCount int64
	require.NoError(t, f.db.Model(&domain.Quote{}).Count(&quoteCount).Error)
	require.NoError(t, f.db.Model(&domain.QuoteItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(2), quoteCount)
	// The rolled-back first attempt must not leave orphaned items.
	assert.Equal(t, int64(2), itemCount)
}

// alwaysStaleRepo never yields a free sequence, so every attempt
// collides and the retry budget runs out.
type alwaysStaleRepo struct {
	domain.Repository
	stale int64
	reads int
}

func (r *alwaysStaleRepo) NextSequence(ctx context.Context, tx *gorm.DB, year int) (int64, error) {
	r.reads++
	return r.stale, nil
}

func TestCreateQuoteSurfacesExhaustedRetries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.createRequest())
	require.NoError(t, err)

	stale := &alwaysStaleRepo{
		Repository: repository.Provide(),
		stale:      first.Quote.NumberSeq,
	}
	f.svc.repo = stale

	_, err = f.svc.Create(ctx, f.createRequest())
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Equal(t, numberRetries, stale.reads)

	var quoteCount int64
	require.NoError(t, f.db.Model(&domain.Quote{}).Count(&quoteCount).Error)
	assert.Equal(t, int64(1), quoteCount)
}
