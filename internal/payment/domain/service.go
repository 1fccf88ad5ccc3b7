package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Service interface {
	// IssueLedger creates the ledger for a newly placed order inside the
	// caller's transaction. For the down-payment scheme dueAt bounds how
	// long the down payment stays payable.
	IssueLedger(ctx context.Context, tx *gorm.DB, req IssueRequest) (*Ledger, error)
	// RecordPayment settles one tranche. The order's persisted state is
	// unchanged when any validation fails.
	RecordPayment(ctx context.Context, req RecordRequest) (*LedgerResponse, error)
	// ReissueDownPayment replaces an expired down payment with a fresh
	// pending tranche and a new due date.
	ReissueDownPayment(ctx context.Context, orderID string, dueAt time.Time) (*LedgerResponse, error)
	GetByOrder(ctx context.Context, orderID string) (*LedgerResponse, error)
	// ExpireDuePayments sweeps pending down payments whose due date has
	// elapsed. Returns how many tranches were expired.
	ExpireDuePayments(ctx context.Context, now time.Time) (int, error)
}

type IssueRequest struct {
	OrderID  snowflake.ID
	TotalDue int64
	Scheme   Scheme
	DueAt    *time.Time
}

type RecordRequest struct {
	OrderID    string      `json:"order_id"`
	Kind       TrancheKind `json:"kind"`
	Amount     int64       `json:"amount"`
	Method     string      `json:"method"`
	GatewayRef string      `json:"gateway_ref"`
}

type LedgerResponse struct {
	OrderID   string            `json:"order_id"`
	TotalDue  int64             `json:"total_due"`
	Scheme    Scheme            `json:"scheme"`
	FullyPaid bool              `json:"fully_paid"`
	Tranches  []TrancheResponse `json:"tranches"`
}

type TrancheResponse struct {
	ID         string        `json:"id"`
	Kind       TrancheKind   `json:"kind"`
	Amount     int64         `json:"amount"`
	Status     TrancheStatus `json:"status"`
	Method     string        `json:"method,omitempty"`
	GatewayRef string        `json:"gateway_ref,omitempty"`
	PaidAt     *time.Time    `json:"paid_at,omitempty"`
	DueAt      *time.Time    `json:"due_at,omitempty"`
}

// IsFullyPaid reports payment completeness for an order, read inside the
// caller's transaction so the fulfillment guard sees a serialized view.
type CompletenessReader interface {
	IsFullyPaid(ctx context.Context, tx *gorm.DB, orderID snowflake.ID) (bool, error)
}
