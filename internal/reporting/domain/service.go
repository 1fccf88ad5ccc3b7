package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// SalesSummary aggregates placed orders in [from, to). The aggregation
	// lives here in the reporting layer; the pricing engine itself never
	// sums across orders.
	SalesSummary(ctx context.Context, req SummaryRequest) (*SalesSummary, error)
	StatusCounts(ctx context.Context, req SummaryRequest) ([]StatusCount, error)
}

type SummaryRequest struct {
	From time.Time
	To   time.Time
}

type SalesSummary struct {
	Orders               int64 `json:"orders"`
	Subtotal             int64 `json:"subtotal"`
	DiscountAmount       int64 `json:"discount_amount"`
	CustomDesignFeeTotal int64 `json:"custom_design_fee_total"`
	TotalAmount          int64 `json:"total_amount"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

var ErrInvalidTimeRange = errors.New("invalid_time_range")
