package migration

import (
	catalogdomain "github.com/cabinetworks/quoteflow/internal/catalog/domain"
	"github.com/cabinetworks/quoteflow/internal/config"
	customerdomain "github.com/cabinetworks/quoteflow/internal/customer/domain"
	quotedomain "github.com/cabinetworks/quoteflow/internal/quote/domain"
	"github.com/cabinetworks/quoteflow/internal/seed"
	settingsdomain "github.com/cabinetworks/quoteflow/internal/settings/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql run in dev or single-binary mode where
			// the gorm schema is authoritative.
			if err := conn.AutoMigrate(
				&customerdomain.Customer{},
				&catalogdomain.Collection{},
				&catalogdomain.Style{},
				&catalogdomain.Product{},
				&settingsdomain.CompanySettings{},
				&quotedomain.Quote{},
				&quotedomain.QuoteItem{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureDefaults(conn)
	}),
)
