package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, db *gorm.DB) (*CompanySettings, error)
	Upsert(ctx context.Context, db *gorm.DB, settings *CompanySettings) error
}
