// Package seed bootstraps reference data so a fresh install can build
// a quote without any manual setup.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/cabinetworks/quoteflow/internal/catalog/domain"
	settingsdomain "github.com/cabinetworks/quoteflow/internal/settings/domain"
	"gorm.io/gorm"
)

var defaultCollections = []struct{ Code, Name string }{
	{"SHAKER", "Shaker"},
	{"RAISED", "Raised Panel"},
	{"SLAB", "Slab"},
}

var defaultStyles = []struct{ Code, Name string }{
	{"WHT", "White"},
	{"GRY", "Gray"},
	{"NAT", "Natural Wood"},
}

// EnsureDefaults seeds the settings row and a starter set of
// collections and styles. Idempotent; existing rows are left alone.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSettingsTx(ctx, tx); err != nil {
			return err
		}
		if err := ensureCollectionsTx(ctx, tx, node); err != nil {
			return err
		}
		return ensureStylesTx(ctx, tx, node)
	})
}

func ensureSettingsTx(ctx context.Context, tx *gorm.DB) error {
	var existing settingsdomain.CompanySettings
	err := tx.WithContext(ctx).
		Where("id = ?", settingsdomain.SettingsID).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return err
	}
	if existing.ID != 0 {
		return nil
	}

	now := time.Now().UTC()
	return tx.WithContext(ctx).Create(&settingsdomain.CompanySettings{
		ID:        settingsdomain.SettingsID,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
}

func ensureCollectionsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, c := range defaultCollections {
		var existing catalogdomain.Collection
		err := tx.WithContext(ctx).
			Where("code = ?", c.Code).
			Limit(1).
			Find(&existing).Error
		if err != nil {
			return err
		}
		if existing.ID != 0 {
			continue
		}

		now := time.Now().UTC()
		err = tx.WithContext(ctx).Create(&catalogdomain.Collection{
			ID:        node.Generate(),
			Code:      c.Code,
			Name:      c.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureStylesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, s := range defaultStyles {
		var existing catalogdomain.Style
		err := tx.WithContext(ctx).
			Where("code = ?", s.Code).
			Limit(1).
			Find(&existing).Error
		if err != nil {
			return err
		}
		if existing.ID != 0 {
			continue
		}

		now := time.Now().UTC()
		err = tx.WithContext(ctx).Create(&catalogdomain.Style{
			ID:        node.Generate(),
			Code:      s.Code,
			Name:      s.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
