package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/cabinetworks/quoteflow/internal/catalog/domain"
	"github.com/cabinetworks/quoteflow/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&product).Error
	if err != nil {
		return nil, err
	}
	if product.ID == 0 {
		return nil, nil
	}
	return &product, nil
}

func (r *repo) FindProductsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []domain.Product
	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) ListProducts(ctx context.Context, db *gorm.DB, filter domain.ProductFilter) ([]domain.Product, error) {
	var products []domain.Product
	stmt := db.WithContext(ctx).Model(&domain.Product{})
	if filter.CollectionID != 0 {
		stmt = stmt.Where("collection_id = ?", filter.CollectionID)
	}
	if filter.StyleID != 0 {
		stmt = stmt.Where("style_id = ?", filter.StyleID)
	}
	if filter.Name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	stmt = option.WithSortBy(option.QuerySortBy{
		SortBy:  filter.SortBy,
		OrderBy: filter.OrderBy,
		Allow: map[string]bool{
			"created_at": true,
			"updated_at": true,
			"name":       true,
			"unit_price": true,
		},
	}).Apply(stmt)
	if err := stmt.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) UpdateProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	if product == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Save(product).Error
}

func (r *repo) ListCollections(ctx context.Context, db *gorm.DB) ([]domain.Collection, error) {
	var collections []domain.Collection
	err := db.WithContext(ctx).
		Order("name asc").
		Find(&collections).Error
	if err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *repo) FindCollectionByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Collection, error) {
	var collection domain.Collection
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&collection).Error
	if err != nil {
		return nil, err
	}
	if collection.ID == 0 {
		return nil, nil
	}
	return &collection, nil
}

func (r *repo) ListStyles(ctx context.Context, db *gorm.DB) ([]domain.Style, error) {
	var styles []domain.Style
	err := db.WithContext(ctx).
		Order("name asc").
		Find(&styles).Error
	if err != nil {
		return nil, err
	}
	return styles, nil
}

func (r *repo) FindStyleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Style, error) {
	var style domain.Style
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&style).Error
	if err != nil {
		return nil, err
	}
	if style.ID == 0 {
		return nil, nil
	}
	return &style, nil
}
