package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/cabinetworks/quoteflow/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status     Status
	CustomerID snowflake.ID
}

type Repository interface {
	// NextSequence returns MAX(number_seq)+1 for the year. Callers must
	// invoke it inside the same transaction as Insert; the unique index
	// on (number_year, number_seq) turns a lost race into a duplicate
	// key error the service retries.
	NextSequence(ctx context.Context, tx *gorm.DB, year int) (int64, error)
	Insert(ctx context.Context, tx *gorm.DB, quote *Quote) error
	InsertItems(ctx context.Context, tx *gorm.DB, items []QuoteItem) error

	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Quote, error)
	FindItems(ctx context.Context, db *gorm.DB, quoteID snowflake.ID) ([]QuoteItem, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Quote, error)

	Update(ctx context.Context, tx *gorm.DB, quote *Quote) error
	ReplaceItems(ctx context.Context, tx *gorm.DB, quoteID snowflake.ID, items []QuoteItem) error
	Delete(ctx context.Context, tx *gorm.DB, id snowflake.ID) error
}
