package domain

import (
	"errors"
	"time"
)

// CompanySettings is a single-row table. The fixed primary key keeps
// upserts targeting the same record.
const SettingsID = 1

type CompanySettings struct {
	ID             int64     `gorm:"primaryKey" json:"-"`
	CompanyName    string    `gorm:"not null" json:"company_name"`
	Address        string    `gorm:"type:text" json:"address,omitempty"`
	Phone          string    `gorm:"type:text" json:"phone,omitempty"`
	Email          string    `gorm:"type:text" json:"email,omitempty"`
	DefaultTaxRate float64   `gorm:"column:default_tax_rate;type:numeric(6,4);not null;default:0" json:"default_tax_rate"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CompanySettings) TableName() string { return "company_settings" }

var (
	ErrInvalidCompanyName = errors.New("invalid_company_name")
	ErrInvalidTaxRate     = errors.New("invalid_tax_rate")
)
