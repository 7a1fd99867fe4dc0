package service

import (
	"context"
	"strings"
	"time"

	"github.com/cabinetworks/quoteflow/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("settings.service"),
		repo: p.Repo,
	}
}

// Get returns the company settings, falling back to an empty record
// with a zero tax rate when the row was never saved.
func (s *Service) Get(ctx context.Context) (domain.CompanySettings, error) {
	settings, err := s.repo.Find(ctx, s.db)
	if err != nil {
		return domain.CompanySettings{}, err
	}
	if settings == nil {
		return domain.CompanySettings{ID: domain.SettingsID}, nil
	}
	return *settings, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSettingsRequest) (domain.CompanySettings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return domain.CompanySettings{}, err
	}

	if req.CompanyName != nil {
		name := strings.TrimSpace(*req.CompanyName)
		if name == "" {
			return domain.CompanySettings{}, domain.ErrInvalidCompanyName
		}
		settings.CompanyName = name
	}
	if req.Address != nil {
		settings.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		settings.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		settings.Email = strings.TrimSpace(*req.Email)
	}
	if req.DefaultTaxRate != nil {
		if *req.DefaultTaxRate < 0 || *req.DefaultTaxRate >= 1 {
			return domain.CompanySettings{}, domain.ErrInvalidTaxRate
		}
		settings.DefaultTaxRate = *req.DefaultTaxRate
	}

	now := time.Now().UTC()
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now

	if err := s.repo.Upsert(ctx, s.db, &settings); err != nil {
		return domain.CompanySettings{}, err
	}

	return settings, nil
}
