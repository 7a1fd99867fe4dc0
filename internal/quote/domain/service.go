package domain

import (
	"context"
	"errors"

	"github.com/cabinetworks/quoteflow/pkg/db/pagination"
)

type ItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type CreateQuoteRequest struct {
	CustomerID   string
	CollectionID string
	StyleID      string
	Items        []ItemInput

	// Exactly one pricing rule may be supplied. When both are nil the
	// configured default markup applies.
	MarkupPercent      *float64
	ClientCabinetPrice *float64

	InstallationFee float64
	MiscExpenses    float64
	TaxRate         *float64
	Notes           string
}

type UpdateItemsRequest struct {
	ID    string
	Items []ItemInput
}

type UpdateStatusRequest struct {
	ID     string
	Status Status
}

type ListQuoteRequest struct {
	PageToken  string
	PageSize   int32
	Status     Status
	CustomerID string
}

type ListQuoteResponse struct {
	pagination.PageInfo
	Quotes []Quote `json:"quotes"`
}

// Detail pairs a quote snapshot with its line items.
type Detail struct {
	Quote Quote       `json:"quote"`
	Items []QuoteItem `json:"items"`
}

type Service interface {
	Create(ctx context.Context, req CreateQuoteRequest) (Detail, error)
	Get(ctx context.Context, id string) (Detail, error)
	List(ctx context.Context, req ListQuoteRequest) (ListQuoteResponse, error)
	UpdateItems(ctx context.Context, req UpdateItemsRequest) (Detail, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (Detail, error)
	Duplicate(ctx context.Context, id string) (Detail, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidCustomer   = errors.New("invalid_customer")
	ErrInvalidCollection = errors.New("invalid_collection")
	ErrInvalidStyle      = errors.New("invalid_style")
	ErrEmptyItems        = errors.New("empty_items")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidFee        = errors.New("invalid_fee")
	ErrInvalidTaxRate    = errors.New("invalid_tax_rate")
	ErrInvalidMethod     = errors.New("invalid_pricing_method")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
)
