package seed

import (
	"testing"

	catalogdomain "github.com/cabinetworks/quoteflow/internal/catalog/domain"
	settingsdomain "github.com/cabinetworks/quoteflow/internal/settings/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&settingsdomain.CompanySettings{},
		&catalogdomain.Collection{},
		&catalogdomain.Style{},
	))
	return db
}

func TestEnsureDefaults(t *testing.T) {
	db := newDB(t)

	require.NoError(t, EnsureDefaults(db))

	var settingsCount, collectionCount, styleCount int64
	require.NoError(t, db.Model(&settingsdomain.CompanySettings{}).Count(&settingsCount).Error)
	require.NoError(t, db.Model(&catalogdomain.Collection{}).Count(&collectionCount).Error)
	require.NoError(t, db.Model(&catalogdomain.Style{}).Count(&styleCount).Error)
	assert.Equal(t, int64(1), settingsCount)
	assert.Equal(t, int64(3), collectionCount)
	assert.Equal(t, int64(3), styleCount)
}

func TestEnsureDefaultsIdempotent(t *testing.T) {
	db := newDB(t)

	require.NoError(t, EnsureDefaults(db))

	var before []catalogdomain.Collection
	require.NoError(t, db.Order("code asc").Find(&before).Error)

	require.NoError(t, EnsureDefaults(db))

	var after []catalogdomain.Collection
	require.NoError(t, db.Order("code asc").Find(&after).Error)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}
}

func TestEnsureDefaultsKeepsExistingSettings(t *testing.T) {
	db := newDB(t)

	require.NoError(t, EnsureDefaults(db))
	require.NoError(t, db.Model(&settingsdomain.CompanySettings{}).
		Where("id = ?", settingsdomain.SettingsID).
		Update("company_name", "Summit Cabinet Co").Error)

	require.NoError(t, EnsureDefaults(db))

	var settings settingsdomain.CompanySettings
	require.NoError(t, db.First(&settings, "id = ?", settingsdomain.SettingsID).Error)
	assert.Equal(t, "Summit Cabinet Co", settings.CompanyName)
}

func TestEnsureDefaultsNilDB(t *testing.T) {
	assert.Error(t, EnsureDefaults(nil))
}
