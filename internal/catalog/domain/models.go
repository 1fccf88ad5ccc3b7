// Package domain contains persistence models for the product catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tailorline/internal/pricing"
	"gorm.io/datatypes"
)

// Product is a made-to-order garment with its rate card. Prices are copied
// into an order snapshot at intake time; editing a product never changes
// already-placed orders.
type Product struct {
	ID              snowflake.ID      `json:"id" gorm:"primaryKey"`
	Name            string            `json:"name" gorm:"type:text;not null"`
	Description     string            `json:"description" gorm:"type:text"`
	UnitPrice       int64             `json:"unit_price" gorm:"not null"`
	DozenUnitPrice  *int64            `json:"dozen_unit_price,omitempty" gorm:""`
	DozenThreshold  int64             `json:"dozen_threshold" gorm:"not null;default:12"`
	DiscountPercent int64             `json:"discount_percent" gorm:"not null;default:0"`
	CustomDesignFee int64             `json:"custom_design_fee" gorm:"not null;default:0"`
	Active          bool              `json:"active" gorm:"not null;default:true"`
	Metadata        datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	Sizes           []ProductSize     `json:"sizes" gorm:"foreignKey:ProductID"`
	Materials       []ProductMaterial `json:"materials" gorm:"foreignKey:ProductID"`
	CreatedAt       time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// ProductSize is an orderable size with its per-unit surcharge.
type ProductSize struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	ProductID       snowflake.ID `json:"product_id" gorm:"not null;index"`
	Label           string       `json:"label" gorm:"type:text;not null"`
	AdditionalPrice int64        `json:"additional_price" gorm:"not null;default:0"`
}

func (ProductSize) TableName() string { return "product_sizes" }

// ProductMaterial is an orderable fabric with its per-unit surcharge.
type ProductMaterial struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	ProductID       snowflake.ID `json:"product_id" gorm:"not null;index"`
	Name            string       `json:"name" gorm:"type:text;not null"`
	AdditionalPrice int64        `json:"additional_price" gorm:"not null;default:0"`
}

func (ProductMaterial) TableName() string { return "product_materials" }

// Tier maps the product's rate card onto the pricing engine's input.
func (p *Product) Tier() pricing.PriceTier {
	return pricing.PriceTier{
		UnitPrice:       p.UnitPrice,
		DozenUnitPrice:  p.DozenUnitPrice,
		DozenThreshold:  p.DozenThreshold,
		DiscountPercent: p.DiscountPercent,
		CustomDesignFee: p.CustomDesignFee,
	}
}
