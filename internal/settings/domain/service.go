package domain

import "context"

type UpdateSettingsRequest struct {
	CompanyName    *string
	Address        *string
	Phone          *string
	Email          *string
	DefaultTaxRate *float64
}

type Service interface {
	Get(ctx context.Context) (CompanySettings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (CompanySettings, error)
}
