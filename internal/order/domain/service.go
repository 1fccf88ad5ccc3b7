package domain

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/smallbiznis/tailorline/internal/auth/domain"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
	"github.com/smallbiznis/tailorline/internal/pricing"
	"github.com/smallbiznis/tailorline/pkg/db/pagination"
)

type Service interface {
	// Create prices every line with the pricing engine, snapshots the
	// breakdowns, and issues the payment ledger in one transaction.
	Create(ctx context.Context, actor authdomain.ActingUser, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, pagination.PageInfo, error)
	// Transition moves an order to a new status if the transition table and
	// the payment guard permit it, appending to the status history.
	Transition(ctx context.Context, actor authdomain.ActingUser, req TransitionRequest) (*Response, error)
	// Quote prices a prospective line item without persisting anything.
	Quote(ctx context.Context, req QuoteRequest) (*pricing.LineItemPriceBreakdown, error)
}

type CreateRequest struct {
	CustomerName string               `json:"customer_name"`
	Scheme       paymentdomain.Scheme `json:"scheme"`
	// DownPaymentDueAt bounds the down-payment tranche; required for the
	// down-payment scheme, supplied by the caller, never derived here.
	DownPaymentDueAt *time.Time    `json:"down_payment_due_at"`
	Notes            string        `json:"notes"`
	Items            []ItemRequest `json:"items"`
}

type ItemRequest struct {
	ProductID        string            `json:"product_id"`
	Material         string            `json:"material"`
	Sizes            []SizeQtyRequest  `json:"sizes"`
	CustomDesign     bool              `json:"custom_design"`
	CustomDesignFee  *int64            `json:"custom_design_fee"`
}

type SizeQtyRequest struct {
	Label    string `json:"label"`
	Quantity int64  `json:"quantity"`
}

type QuoteRequest struct {
	ProductID       string           `json:"product_id"`
	Material        string           `json:"material"`
	Sizes           []SizeQtyRequest `json:"sizes"`
	CustomDesign    bool             `json:"custom_design"`
	CustomDesignFee *int64           `json:"custom_design_fee"`
}

type TransitionRequest struct {
	OrderID  string `json:"-"`
	ToStatus Status `json:"to_status"`
	Note     string `json:"note"`
}

type ListRequest struct {
	Status Status
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type Response struct {
	ID                   string                  `json:"id"`
	CustomerName         string                  `json:"customer_name"`
	Status               Status                  `json:"status"`
	Notes                string                  `json:"notes,omitempty"`
	Subtotal             int64                   `json:"subtotal"`
	DiscountAmount       int64                   `json:"discount_amount"`
	CustomDesignFeeTotal int64                   `json:"custom_design_fee_total"`
	TotalAmount          int64                   `json:"total_amount"`
	Items                []ItemResponse          `json:"items"`
	History              []StatusHistoryResponse `json:"history,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
}

type ItemResponse struct {
	ID           string                          `json:"id"`
	ProductID    string                          `json:"product_id"`
	ProductName  string                          `json:"product_name"`
	MaterialName string                          `json:"material_name,omitempty"`
	CustomDesign bool                            `json:"custom_design"`
	Quantity     int64                           `json:"quantity"`
	TotalAmount  int64                           `json:"total_amount"`
	Breakdown    pricing.LineItemPriceBreakdown  `json:"breakdown"`
}

type StatusHistoryResponse struct {
	Status    Status          `json:"status"`
	ActorName string          `json:"actor_name"`
	ActorRole authdomain.Role `json:"actor_role"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidItems    = errors.New("invalid_items")
	ErrUnknownProduct  = errors.New("unknown_product")
	ErrInactiveProduct = errors.New("inactive_product")
	ErrUnknownSize     = errors.New("unknown_size")
	ErrUnknownMaterial = errors.New("unknown_material")
	ErrMissingDueDate  = errors.New("missing_due_date")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrNotFound        = errors.New("not_found")
)
