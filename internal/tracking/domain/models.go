package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	orderdomain "github.com/smallbiznis/tailorline/internal/order/domain"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
)

// Token lets a customer follow an order without an account. The opaque
// value is a ULID; one token per order, created on demand.
type Token struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	OrderID   snowflake.ID `json:"order_id" gorm:"not null;uniqueIndex"`
	Value     string       `json:"value" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Token) TableName() string { return "tracking_tokens" }

type Service interface {
	// EnsureForOrder returns the order's tracking token, creating it on
	// first use.
	EnsureForOrder(ctx context.Context, orderID string) (*Token, error)
	// Resolve returns the public view of the tracked order.
	Resolve(ctx context.Context, tokenValue string) (*PublicOrder, error)
}

// PublicOrder is what an unauthenticated tracking page may see.
type PublicOrder struct {
	CustomerName string                              `json:"customer_name"`
	Status       orderdomain.Status                  `json:"status"`
	TotalAmount  int64                               `json:"total_amount"`
	History      []orderdomain.StatusHistoryResponse `json:"history"`
	Payment      *paymentdomain.LedgerResponse       `json:"payment,omitempty"`
}

var (
	ErrInvalidToken = errors.New("invalid_token")
	ErrInvalidOrder = errors.New("invalid_order")
)
