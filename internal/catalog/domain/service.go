package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type ListProductRequest struct {
	CollectionID string
	StyleID      string
	Name         string
	Active       *bool
	SortBy       string
	OrderBy      string
}

type CreateProductRequest struct {
	Code         string
	Name         string
	CollectionID string
	StyleID      string
	UnitPrice    float64
	Msrp         *float64
	Active       *bool
}

type UpdateProductRequest struct {
	ID        string
	Name      *string
	UnitPrice *float64
	Msrp      *float64
	ClearMsrp bool
	Active    *bool
}

type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (Product, error)
	ListProducts(ctx context.Context, req ListProductRequest) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	UpdateProduct(ctx context.Context, req UpdateProductRequest) (Product, error)

	// ProductsByIDs resolves every requested product in one call. It
	// fails with ErrNotFound when any id is missing so quote creation
	// can reject partial item sets.
	ProductsByIDs(ctx context.Context, ids []snowflake.ID) (map[snowflake.ID]Product, error)

	ListCollections(ctx context.Context) ([]Collection, error)
	ListStyles(ctx context.Context) ([]Style, error)
	CollectionByID(ctx context.Context, id snowflake.ID) (Collection, error)
	StyleByID(ctx context.Context, id snowflake.ID) (Style, error)
}

var (
	ErrInvalidCode       = errors.New("invalid_code")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidCollection = errors.New("invalid_collection")
	ErrInvalidStyle      = errors.New("invalid_style")
	ErrInvalidPrice      = errors.New("invalid_price")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
)
