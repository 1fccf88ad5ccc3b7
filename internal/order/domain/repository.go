package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	// FindByID loads the order with items and history. With forUpdate the
	// order row is locked for the span of the surrounding transaction.
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID, forUpdate bool) (*Order, error)
	List(ctx context.Context, db *gorm.DB, req ListRequest) ([]Order, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, order *Order) error
	AppendHistory(ctx context.Context, db *gorm.DB, entry *StatusHistory) error
}
