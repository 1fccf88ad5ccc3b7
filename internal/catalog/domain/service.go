package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
}

type CreateRequest struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	UnitPrice       int64             `json:"unit_price"`
	DozenUnitPrice  *int64            `json:"dozen_unit_price"`
	DozenThreshold  int64             `json:"dozen_threshold"`
	DiscountPercent int64             `json:"discount_percent"`
	CustomDesignFee int64             `json:"custom_design_fee"`
	Sizes           []SizeRequest     `json:"sizes"`
	Materials       []MaterialRequest `json:"materials"`
	Metadata        map[string]any    `json:"metadata"`
}

type UpdateRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	UnitPrice       *int64  `json:"unit_price"`
	DozenUnitPrice  *int64  `json:"dozen_unit_price"`
	DiscountPercent *int64  `json:"discount_percent"`
	CustomDesignFee *int64  `json:"custom_design_fee"`
	Active          *bool   `json:"active"`
}

type SizeRequest struct {
	Label           string `json:"label"`
	AdditionalPrice int64  `json:"additional_price"`
}

type MaterialRequest struct {
	Name            string `json:"name"`
	AdditionalPrice int64  `json:"additional_price"`
}

type ListRequest struct {
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type Response struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	UnitPrice       int64              `json:"unit_price"`
	DozenUnitPrice  *int64             `json:"dozen_unit_price,omitempty"`
	DozenThreshold  int64              `json:"dozen_threshold"`
	DiscountPercent int64              `json:"discount_percent"`
	CustomDesignFee int64              `json:"custom_design_fee"`
	Active          bool               `json:"active"`
	Sizes           []SizeResponse     `json:"sizes"`
	Materials       []MaterialResponse `json:"materials"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type SizeResponse struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	AdditionalPrice int64  `json:"additional_price"`
}

type MaterialResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	AdditionalPrice int64  `json:"additional_price"`
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidDiscount  = errors.New("invalid_discount")
	ErrInvalidSize      = errors.New("invalid_size")
	ErrInvalidMaterial  = errors.New("invalid_material")
	ErrDuplicateSize    = errors.New("duplicate_size")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
	ErrInvalidDesignFee = errors.New("invalid_design_fee")
)
