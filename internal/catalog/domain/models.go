package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Product is a catalog entry priced at wholesale. Msrp is optional; a
// nil value means the manufacturer publishes no suggested price and the
// unit price stands in for it.
type Product struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Code         string       `gorm:"type:text;not null;uniqueIndex:ux_products_code" json:"code"`
	Name         string       `gorm:"not null" json:"name"`
	CollectionID snowflake.ID `gorm:"not null;index" json:"collection_id"`
	StyleID      snowflake.ID `gorm:"not null;index" json:"style_id"`
	UnitPrice    float64      `gorm:"not null" json:"unit_price"`
	Msrp         *float64     `json:"msrp,omitempty"`
	Active       bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

type Collection struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"type:text;not null;uniqueIndex:ux_collections_code" json:"code"`
	Name      string       `gorm:"not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Collection) TableName() string { return "collections" }

type Style struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"type:text;not null;uniqueIndex:ux_styles_code" json:"code"`
	Name      string       `gorm:"not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Style) TableName() string { return "styles" }
