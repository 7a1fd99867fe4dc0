package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ProductFilter struct {
	CollectionID snowflake.ID
	StyleID      snowflake.ID
	Name         string
	Active       *bool
	SortBy       string
	OrderBy      string
}

type Repository interface {
	InsertProduct(ctx context.Context, db *gorm.DB, product *Product) error
	FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	FindProductsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Product, error)
	ListProducts(ctx context.Context, db *gorm.DB, filter ProductFilter) ([]Product, error)
	UpdateProduct(ctx context.Context, db *gorm.DB, product *Product) error

	ListCollections(ctx context.Context, db *gorm.DB) ([]Collection, error)
	FindCollectionByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Collection, error)
	ListStyles(ctx context.Context, db *gorm.DB) ([]Style, error)
	FindStyleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Style, error)
}
