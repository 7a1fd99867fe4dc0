package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cabinetworks/quoteflow/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.Product{}, domain.ErrInvalidCode
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}

	collectionID, err := s.parseID(req.CollectionID)
	if err != nil {
		return domain.Product{}, domain.ErrInvalidCollection
	}
	collection, err := s.repo.FindCollectionByID(ctx, s.db, collectionID)
	if err != nil {
		return domain.Product{}, err
	}
	if collection == nil {
		return domain.Product{}, domain.ErrInvalidCollection
	}

	styleID, err := s.parseID(req.StyleID)
	if err != nil {
		return domain.Product{}, domain.ErrInvalidStyle
	}
	style, err := s.repo.FindStyleByID(ctx, s.db, styleID)
	if err != nil {
		return domain.Product{}, err
	}
	if style == nil {
		return domain.Product{}, domain.ErrInvalidStyle
	}

	if req.UnitPrice < 0 {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if req.Msrp != nil && *req.Msrp < 0 {
		return domain.Product{}, domain.ErrInvalidPrice
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:           s.genID.Generate(),
		Code:         code,
		Name:         name,
		CollectionID: collectionID,
		StyleID:      styleID,
		UnitPrice:    req.UnitPrice,
		Msrp:         req.Msrp,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.InsertProduct(ctx, s.db, &product); err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, req domain.ListProductRequest) ([]domain.Product, error) {
	filter := domain.ProductFilter{
		Name:    strings.TrimSpace(req.Name),
		Active:  req.Active,
		SortBy:  strings.TrimSpace(req.SortBy),
		OrderBy: strings.TrimSpace(req.OrderBy),
	}

	if raw := strings.TrimSpace(req.CollectionID); raw != "" {
		id, err := s.parseID(raw)
		if err != nil {
			return nil, domain.ErrInvalidCollection
		}
		filter.CollectionID = id
	}
	if raw := strings.TrimSpace(req.StyleID); raw != "" {
		id, err := s.parseID(raw)
		if err != nil {
			return nil, domain.ErrInvalidStyle
		}
		filter.StyleID = id
	}

	return s.repo.ListProducts(ctx, s.db, filter)
}

func (s *Service) GetProduct(ctx context.Context, rawID string) (domain.Product, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Product{}, domain.ErrInvalidID
	}

	product, err := s.repo.FindProductByID(ctx, s.db, id)
	if err != nil {
		return domain.Product{}, err
	}
	if product == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	return *product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, req domain.UpdateProductRequest) (domain.Product, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Product{}, domain.ErrInvalidID
	}

	product, err := s.repo.FindProductByID(ctx, s.db, id)
	if err != nil {
		return domain.Product{}, err
	}
	if product == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, domain.ErrInvalidName
		}
		product.Name = name
	}
	if req.UnitPrice != nil {
		if *req.UnitPrice < 0 {
			return domain.Product{}, domain.ErrInvalidPrice
		}
		product.UnitPrice = *req.UnitPrice
	}
	if req.ClearMsrp {
		product.Msrp = nil
	} else if req.Msrp != nil {
		if *req.Msrp < 0 {
			return domain.Product{}, domain.ErrInvalidPrice
		}
		product.Msrp = req.Msrp
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateProduct(ctx, s.db, product); err != nil {
		return domain.Product{}, err
	}

	return *product, nil
}

func (s *Service) ProductsByIDs(ctx context.Context, ids []snowflake.ID) (map[snowflake.ID]domain.Product, error) {
	unique := make([]snowflake.ID, 0, len(ids))
	seen := make(map[snowflake.ID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	products, err := s.repo.FindProductsByIDs(ctx, s.db, unique)
	if err != nil {
		return nil, err
	}

	resolved := make(map[snowflake.ID]domain.Product, len(products))
	for _, product := range products {
		resolved[product.ID] = product
	}
	for _, id := range unique {
		if _, ok := resolved[id]; !ok {
			s.log.Warn("product missing from catalog", zap.String("product_id", id.String()))
			return nil, domain.ErrNotFound
		}
	}

	return resolved, nil
}

func (s *Service) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return s.repo.ListCollections(ctx, s.db)
}

func (s *Service) ListStyles(ctx context.Context) ([]domain.Style, error) {
	return s.repo.ListStyles(ctx, s.db)
}

func (s *Service) CollectionByID(ctx context.Context, id snowflake.ID) (domain.Collection, error) {
	collection, err := s.repo.FindCollectionByID(ctx, s.db, id)
	if err != nil {
		return domain.Collection{}, err
	}
	if collection == nil {
		return domain.Collection{}, domain.ErrNotFound
	}
	return *collection, nil
}

func (s *Service) StyleByID(ctx context.Context, id snowflake.ID) (domain.Style, error) {
	style, err := s.repo.FindStyleByID(ctx, s.db, id)
	if err != nil {
		return domain.Style{}, err
	}
	if style == nil {
		return domain.Style{}, domain.ErrNotFound
	}
	return *style, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
