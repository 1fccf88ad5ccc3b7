package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	orderdomain "github.com/smallbiznis/tailorline/internal/order/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() orderdomain.Repository { return &repo{} }

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *orderdomain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID, forUpdate bool) (*orderdomain.Order, error) {
	stmt := db.WithContext(ctx).
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
	// sqlite has no row locks; the whole database locks on write instead.
	if forUpdate && db.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var order orderdomain.Order
	err := stmt.First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, req orderdomain.ListRequest) ([]orderdomain.Order, error) {
	stmt := db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC")

	if req.Status != "" {
		stmt = stmt.Where("status = ?", req.Status)
	}
	if req.From != nil {
		stmt = stmt.Where("created_at >= ?", *req.From)
	}
	if req.To != nil {
		stmt = stmt.Where("created_at < ?", *req.To)
	}
	if req.Limit > 0 {
		stmt = stmt.Limit(req.Limit)
	}
	if req.Offset > 0 {
		stmt = stmt.Offset(req.Offset)
	}

	var orders []orderdomain.Order
	err := stmt.Find(&orders).Error
	return orders, err
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, order *orderdomain.Order) error {
	return db.WithContext(ctx).Model(&orderdomain.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":     order.Status,
			"updated_at": order.UpdatedAt,
		}).Error
}

func (r *repo) AppendHistory(ctx context.Context, db *gorm.DB, entry *orderdomain.StatusHistory) error {
	return db.WithContext(ctx).Create(entry).Error
}
