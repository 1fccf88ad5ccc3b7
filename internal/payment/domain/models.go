// Package domain contains the payment sub-ledger: the tranches an order is
// expected to pay and whether the order is fully paid.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TrancheKind is the closed set of payment tranche kinds.
type TrancheKind string

const (
	TrancheDownPayment      TrancheKind = "DOWN_PAYMENT"
	TrancheRemainingPayment TrancheKind = "REMAINING_PAYMENT"
	TrancheFullPayment      TrancheKind = "FULL_PAYMENT"
)

func (k TrancheKind) Valid() bool {
	switch k {
	case TrancheDownPayment, TrancheRemainingPayment, TrancheFullPayment:
		return true
	}
	return false
}

// TrancheStatus is the lifecycle of a single tranche.
type TrancheStatus string

const (
	TrancheStatusPending TrancheStatus = "PENDING"
	TrancheStatusPaid    TrancheStatus = "PAID"
	TrancheStatusExpired TrancheStatus = "EXPIRED"
)

// Scheme selects how an order's total is collected.
type Scheme string

const (
	SchemeFull        Scheme = "FULL"
	SchemeDownPayment Scheme = "DOWN_PAYMENT"
)

// Ledger is the per-order payment ledger. Exactly one ledger per order;
// FullyPaid is recomputed on every recorded payment, never set directly.
type Ledger struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	OrderID   snowflake.ID `json:"order_id" gorm:"not null;uniqueIndex"`
	TotalDue  int64        `json:"total_due" gorm:"not null"`
	Scheme    Scheme       `json:"scheme" gorm:"type:text;not null"`
	FullyPaid bool         `json:"fully_paid" gorm:"not null;default:false"`
	Tranches  []Tranche    `json:"tranches" gorm:"foreignKey:LedgerID"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Ledger) TableName() string { return "payment_ledgers" }

// Tranche is one expected payment within a ledger.
type Tranche struct {
	ID         snowflake.ID  `json:"id" gorm:"primaryKey"`
	LedgerID   snowflake.ID  `json:"ledger_id" gorm:"not null;index"`
	OrderID    snowflake.ID  `json:"order_id" gorm:"not null;index"`
	Kind       TrancheKind   `json:"kind" gorm:"type:text;not null"`
	Amount     int64         `json:"amount" gorm:"not null"`
	Status     TrancheStatus `json:"status" gorm:"type:text;not null;default:'PENDING'"`
	Method     string        `json:"method,omitempty" gorm:"type:text"`
	GatewayRef string        `json:"gateway_ref,omitempty" gorm:"type:text"`
	PaidAt     *time.Time    `json:"paid_at,omitempty" gorm:""`
	DueAt      *time.Time    `json:"due_at,omitempty" gorm:""`
	CreatedAt  time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Tranche) TableName() string { return "payment_tranches" }
