package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/cabinetworks/quoteflow/internal/quote/domain"
	"github.com/cabinetworks/quoteflow/pkg/db/option"
	"github.com/cabinetworks/quoteflow/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) NextSequence(ctx context.Context, tx *gorm.DB, year int) (int64, error) {
	var next int64
	err := tx.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(number_seq), 0) + 1
		 FROM quotes
		 WHERE number_year = ?`,
		year,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *repo) Insert(ctx context.Context, tx *gorm.DB, quote *domain.Quote) error {
	return tx.WithContext(ctx).Create(quote).Error
}

func (r *repo) InsertItems(ctx context.Context, tx *gorm.DB, items []domain.QuoteItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Quote, error) {
	var quote domain.Quote
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&quote).Error
	if err != nil {
		return nil, err
	}
	if quote.ID == 0 {
		return nil, nil
	}
	return &quote, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, quoteID snowflake.ID) ([]domain.QuoteItem, error) {
	var items []domain.QuoteItem
	err := db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Quote, error) {
	var quotes []*domain.Quote
	stmt := db.WithContext(ctx).Model(&domain.Quote{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *repo) Update(ctx context.Context, tx *gorm.DB, quote *domain.Quote) error {
	if quote == nil {
		return gorm.ErrInvalidData
	}
	return tx.WithContext(ctx).Save(quote).Error
}

func (r *repo) ReplaceItems(ctx context.Context, tx *gorm.DB, quoteID snowflake.ID, items []domain.QuoteItem) error {
	err := tx.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Delete(&domain.QuoteItem{}).Error
	if err != nil {
		return err
	}
	return r.InsertItems(ctx, tx, items)
}

func (r *repo) Delete(ctx context.Context, tx *gorm.DB, id snowflake.ID) error {
	err := tx.WithContext(ctx).
		Where("quote_id = ?", id).
		Delete(&domain.QuoteItem{}).Error
	if err != nil {
		return err
	}
	return tx.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Quote{}).Error
}
