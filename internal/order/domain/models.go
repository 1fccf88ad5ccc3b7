// Package domain contains the order aggregate: items with snapshotted price
// breakdowns, the fulfillment status, and its append-only history.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/tailorline/internal/auth/domain"
	"gorm.io/datatypes"
)

// Order is the aggregate root. Totals are snapshotted at creation; later
// catalog or discount changes never alter a placed order.
type Order struct {
	ID                   snowflake.ID    `json:"id" gorm:"primaryKey"`
	CustomerID           *snowflake.ID   `json:"customer_id,omitempty" gorm:"index"`
	CustomerName         string          `json:"customer_name" gorm:"type:text;not null"`
	Status               Status          `json:"status" gorm:"type:text;not null;index"`
	Notes                string          `json:"notes" gorm:"type:text"`
	Subtotal             int64           `json:"subtotal" gorm:"not null"`
	DiscountAmount       int64           `json:"discount_amount" gorm:"not null"`
	CustomDesignFeeTotal int64           `json:"custom_design_fee_total" gorm:"not null"`
	TotalAmount          int64           `json:"total_amount" gorm:"not null"`
	Items                []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	History              []StatusHistory `json:"history" gorm:"foreignKey:OrderID"`
	CreatedBy            snowflake.ID    `json:"created_by" gorm:"not null"`
	CreatedAt            time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP;index"`
	UpdatedAt            time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one priced line. Breakdown is the full engine output stored
// as a versioned JSON snapshot.
type OrderItem struct {
	ID              snowflake.ID   `json:"id" gorm:"primaryKey"`
	OrderID         snowflake.ID   `json:"order_id" gorm:"not null;index"`
	ProductID       snowflake.ID   `json:"product_id" gorm:"not null;index"`
	ProductName     string         `json:"product_name" gorm:"type:text;not null"`
	MaterialName    string         `json:"material_name" gorm:"type:text"`
	CustomDesign    bool           `json:"custom_design" gorm:"not null;default:false"`
	Quantity        int64          `json:"quantity" gorm:"not null"`
	TotalAmount     int64          `json:"total_amount" gorm:"not null"`
	Breakdown       datatypes.JSON `json:"breakdown" gorm:"type:jsonb;not null"`
	SnapshotVersion int            `json:"snapshot_version" gorm:"not null;default:1"`
	CreatedAt       time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (OrderItem) TableName() string { return "order_items" }

// StatusHistory is append-only; rows are never mutated or truncated.
type StatusHistory struct {
	ID        snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrderID   snowflake.ID    `json:"order_id" gorm:"not null;index"`
	Status    Status          `json:"status" gorm:"type:text;not null"`
	ActorID   snowflake.ID    `json:"actor_id" gorm:"not null"`
	ActorName string          `json:"actor_name" gorm:"type:text"`
	ActorRole authdomain.Role `json:"actor_role" gorm:"type:text;not null"`
	Note      string          `json:"note,omitempty" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (StatusHistory) TableName() string { return "order_status_history" }
