package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/cabinetworks/quoteflow/internal/catalog/domain"
	"github.com/cabinetworks/quoteflow/internal/clock"
	"github.com/cabinetworks/quoteflow/internal/config"
	customerdomain "github.com/cabinetworks/quoteflow/internal/customer/domain"
	"github.com/cabinetworks/quoteflow/internal/pricing"
	"github.com/cabinetworks/quoteflow/internal/quote/domain"
	"github.com/cabinetworks/quoteflow/internal/quote/format"
	settingsdomain "github.com/cabinetworks/quoteflow/internal/settings/domain"
	pkgdb "github.com/cabinetworks/quoteflow/pkg/db"
	"github.com/cabinetworks/quoteflow/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// numberRetries bounds the duplicate-key retry loop around quote
// number assignment. Two writers racing the same MAX+1 read resolve on
// the first retry; anything past a handful of attempts means the
// database itself is unhealthy.
const numberRetries = 5

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Policy   *config.PricingPolicyHolder
	Repo     domain.Repository
	Catalog  catalogdomain.Service
	Customer customerdomain.Service
	Settings settingsdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	policy   *config.PricingPolicyHolder
	repo     domain.Repository
	catalog  catalogdomain.Service
	customer customerdomain.Service
	settings settingsdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("quote.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		policy:   p.Policy,
		repo:     p.Repo,
		catalog:  p.Catalog,
		customer: p.Customer,
		settings: p.Settings,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateQuoteRequest) (domain.Detail, error) {
	if req.MarkupPercent != nil && req.ClientCabinetPrice != nil {
		return domain.Detail{}, domain.ErrInvalidMethod
	}
	if req.InstallationFee < 0 || req.MiscExpenses < 0 {
		return domain.Detail{}, domain.ErrInvalidFee
	}

	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return domain.Detail{}, domain.ErrInvalidCustomer
	}
	if _, err := s.customer.GetByID(ctx, customerdomain.GetCustomerRequest{ID: customerID.String()}); err != nil {
		return domain.Detail{}, err
	}

	collectionID, err := parseID(req.CollectionID)
	if err != nil {
		return domain.Detail{}, domain.ErrInvalidCollection
	}
	if _, err := s.catalog.CollectionByID(ctx, collectionID); err != nil {
		return domain.Detail{}, err
	}

	styleID, err := parseID(req.StyleID)
	if err != nil {
		return domain.Detail{}, domain.ErrInvalidStyle
	}
	if _, err := s.catalog.StyleByID(ctx, styleID); err != nil {
		return domain.Detail{}, err
	}

	items, priced, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return domain.Detail{}, err
	}

	taxRate, err := s.resolveTaxRate(ctx, req.TaxRate)
	if err != nil {
		return domain.Detail{}, err
	}

	policy := s.policy.Get()

	method := pricing.Markup(policy.DefaultMarkupPercent)
	methodTag := domain.MethodMarkup
	markupPercent := policy.DefaultMarkupPercent
	switch {
	case req.ClientCabinetPrice != nil:
		if *req.ClientCabinetPrice < 0 {
			return domain.Detail{}, domain.ErrInvalidFee
		}
		method = pricing.FixedPrice(*req.ClientCabinetPrice)
		methodTag = domain.MethodFixedPrice
	case req.MarkupPercent != nil:
		if *req.MarkupPercent < 0 {
			return domain.Detail{}, domain.ErrInvalidMethod
		}
		method = pricing.Markup(*req.MarkupPercent)
		markupPercent = *req.MarkupPercent
	}

	now := s.clock.Now().UTC()

	quote := domain.Quote{
		ID:            s.genID.Generate(),
		CustomerID:    customerID,
		CollectionID:  collectionID,
		StyleID:       styleID,
		Status:        domain.StatusDraft,
		PricingMethod: methodTag,
		Notes:         strings.TrimSpace(req.Notes),
		ExpiresAt:     now.AddDate(0, 0, policy.QuoteValidityDays),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if methodTag == domain.MethodMarkup {
		quote.MarkupPercent = &markupPercent
	}
	s.applyPricing(&quote, priced, method, req.InstallationFee, req.MiscExpenses, taxRate)

	for i := range items {
		items[i].QuoteID = quote.ID
	}

	if err := s.insertNumbered(ctx, &quote, items, now); err != nil {
		return domain.Detail{}, err
	}

	s.log.Info("quote created",
		zap.String("quote_id", quote.ID.String()),
		zap.String("quote_number", quote.QuoteNumber),
	)

	return domain.Detail{Quote: quote, Items: items}, nil
}

// insertNumbered assigns the next per-year sequence and persists the
// quote with its items in one transaction. A concurrent writer that
// claims the same sequence trips the unique index; the transaction is
// rolled back and retried with a fresh read.
func (s *Service) insertNumbered(ctx context.Context, quote *domain.Quote, items []domain.QuoteItem, now time.Time) error {
	year := now.Year()

	var lastErr error
	for attempt := 0; attempt < numberRetries; attempt++ {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			seq, err := s.repo.NextSequence(ctx, tx, year)
			if err != nil {
				return err
			}

			number, err := format.FormatQuoteNumber(format.DefaultQuoteNumberTemplate, now, seq)
			if err != nil {
				return err
			}

			quote.NumberYear = year
			quote.NumberSeq = seq
			quote.QuoteNumber = number

			if err := s.repo.Insert(ctx, tx, quote); err != nil {
				return err
			}
			return s.repo.InsertItems(ctx, tx, items)
		})
		if err == nil {
			return nil
		}
		if !pkgdb.IsDuplicateKeyErr(err) {
			return err
		}
		lastErr = err
		s.log.Warn("quote number collision, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("year", year),
		)
	}
	return lastErr
}

func (s *Service) Get(ctx context.Context, rawID string) (domain.Detail, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Detail{}, domain.ErrInvalidID
	}
	return s.loadDetail(ctx, id)
}

func (s *Service) List(ctx context.Context, req domain.ListQuoteRequest) (domain.ListQuoteResponse, error) {
	filter := domain.ListFilter{}
	if req.Status != "" {
		if !req.Status.Valid() {
			return domain.ListQuoteResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = req.Status
	}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return domain.ListQuoteResponse{}, domain.ErrInvalidCustomer
		}
		filter.CustomerID = id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	quotes, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListQuoteResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(quotes, pageSize, func(quote *domain.Quote) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        quote.ID.String(),
			CreatedAt: quote.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(quotes) > int(pageSize) {
		quotes = quotes[:pageSize]
	}

	out := make([]domain.Quote, 0, len(quotes))
	for _, quote := range quotes {
		if quote == nil {
			continue
		}
		out = append(out, *quote)
	}

	resp := domain.ListQuoteResponse{Quotes: out}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

// UpdateItems swaps the item set and reprices the quote. The saved tax
// rate and pricing rule are kept: a fixed cabinet price stays exactly
// where the installer set it, while a markup rederives the cabinet
// price from the new wholesale cost.
func (s *Service) UpdateItems(ctx context.Context, req domain.UpdateItemsRequest) (domain.Detail, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Detail{}, domain.ErrInvalidID
	}

	quote, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Detail{}, err
	}
	if quote == nil {
		return domain.Detail{}, domain.ErrNotFound
	}

	items, priced, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return domain.Detail{}, err
	}
	for i := range items {
		items[i].QuoteID = quote.ID
	}

	s.applyPricing(quote, priced, quote.Method(), quote.InstallationFee, quote.MiscExpenses, quote.TaxRate)
	quote.UpdatedAt = s.clock.Now().UTC()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.ReplaceItems(ctx, tx, quote.ID, items); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, quote)
	})
	if err != nil {
		return domain.Detail{}, err
	}

	return domain.Detail{Quote: *quote, Items: items}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Detail, error) {
	if !req.Status.Valid() {
		return domain.Detail{}, domain.ErrInvalidStatus
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Detail{}, domain.ErrInvalidID
	}

	quote, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Detail{}, err
	}
	if quote == nil {
		return domain.Detail{}, domain.ErrNotFound
	}

	now := s.clock.Now().UTC()
	quote.Status = req.Status
	if req.Status == domain.StatusSent {
		quote.SentAt = &now
	}
	quote.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, quote); err != nil {
		return domain.Detail{}, err
	}

	items, err := s.repo.FindItems(ctx, s.db, quote.ID)
	if err != nil {
		return domain.Detail{}, err
	}
	return domain.Detail{Quote: *quote, Items: items}, nil
}

// Duplicate clones the pricing snapshot and items verbatim under a
// fresh number and a reset lifecycle.
func (s *Service) Duplicate(ctx context.Context, rawID string) (domain.Detail, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Detail{}, domain.ErrInvalidID
	}

	source, err := s.loadDetail(ctx, id)
	if err != nil {
		return domain.Detail{}, err
	}

	now := s.clock.Now().UTC()
	policy := s.policy.Get()

	clone := source.Quote
	clone.ID = s.genID.Generate()
	clone.Status = domain.StatusDraft
	clone.SentAt = nil
	clone.ExpiresAt = now.AddDate(0, 0, policy.QuoteValidityDays)
	clone.CreatedAt = now
	clone.UpdatedAt = now

	items := make([]domain.QuoteItem, 0, len(source.Items))
	for _, item := range source.Items {
		item.ID = s.genID.Generate()
		item.QuoteID = clone.ID
		item.CreatedAt = now
		items = append(items, item)
	}

	if err := s.insertNumbered(ctx, &clone, items, now); err != nil {
		return domain.Detail{}, err
	}

	s.log.Info("quote duplicated",
		zap.String("source_id", source.Quote.ID.String()),
		zap.String("quote_id", clone.ID.String()),
		zap.String("quote_number", clone.QuoteNumber),
	)

	return domain.Detail{Quote: clone, Items: items}, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return domain.ErrInvalidID
	}

	quote, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if quote == nil {
		return domain.ErrNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, id)
	})
}

func (s *Service) loadDetail(ctx context.Context, id snowflake.ID) (domain.Detail, error) {
	quote, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Detail{}, err
	}
	if quote == nil {
		return domain.Detail{}, domain.ErrNotFound
	}

	items, err := s.repo.FindItems(ctx, s.db, id)
	if err != nil {
		return domain.Detail{}, err
	}
	return domain.Detail{Quote: *quote, Items: items}, nil
}

// buildItems resolves catalog products for the inputs and returns both
// the persistable rows and the pricing inputs derived from them.
func (s *Service) buildItems(ctx context.Context, inputs []domain.ItemInput) ([]domain.QuoteItem, []pricing.Item, error) {
	if len(inputs) == 0 {
		return nil, nil, domain.ErrEmptyItems
	}

	ids := make([]snowflake.ID, 0, len(inputs))
	for _, input := range inputs {
		if input.Quantity <= 0 {
			return nil, nil, domain.ErrInvalidQuantity
		}
		id, err := parseID(input.ProductID)
		if err != nil {
			return nil, nil, domain.ErrInvalidID
		}
		ids = append(ids, id)
	}

	products, err := s.catalog.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	items := make([]domain.QuoteItem, 0, len(inputs))
	priced := make([]pricing.Item, 0, len(inputs))
	for i, input := range inputs {
		product := products[ids[i]]
		items = append(items, domain.QuoteItem{
			ID:          s.genID.Generate(),
			ProductID:   product.ID,
			ProductCode: product.Code,
			ProductName: product.Name,
			Quantity:    input.Quantity,
			UnitPrice:   product.UnitPrice,
			Msrp:        product.Msrp,
			LineTotal:   product.UnitPrice * float64(input.Quantity),
			CreatedAt:   s.clock.Now().UTC(),
		})
		priced = append(priced, pricing.Item{
			UnitPrice: product.UnitPrice,
			Msrp:      product.Msrp,
			Quantity:  input.Quantity,
		})
	}

	return items, priced, nil
}

// applyPricing recomputes every derived money field on the quote from
// the priced items and the given rule. Values are stored unrounded;
// rounding happens only when figures are formatted for display.
func (s *Service) applyPricing(quote *domain.Quote, priced []pricing.Item, method pricing.Method, installationFee, miscExpenses, taxRate float64) {
	quote.WholesaleCost = pricing.WholesaleCost(priced)
	quote.MsrpTotal = pricing.MsrpTotal(priced)
	quote.ClientCabinetPrice = pricing.ClientCabinetPrice(quote.WholesaleCost, method)
	quote.InstallationFee = installationFee
	quote.MiscExpenses = miscExpenses

	totals := pricing.ComputeTotals(quote.ClientCabinetPrice, installationFee, miscExpenses, taxRate)
	quote.ClientSubtotal = totals.ClientSubtotal
	quote.TaxRate = taxRate
	quote.TaxAmount = totals.TaxAmount
	quote.Total = totals.Total
}

func (s *Service) resolveTaxRate(ctx context.Context, requested *float64) (float64, error) {
	if requested != nil {
		if *requested < 0 || *requested >= 1 {
			return 0, domain.ErrInvalidTaxRate
		}
		return *requested, nil
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	return settings.DefaultTaxRate, nil
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
