package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/tailorline/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() catalogdomain.Repository { return &repo{} }

func (r *repo) Insert(ctx context.Context, db *gorm.DB, product *catalogdomain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.Product, error) {
	var product catalogdomain.Product
	err := db.WithContext(ctx).
		Preload("Sizes").
		Preload("Materials").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, req catalogdomain.ListRequest) ([]catalogdomain.Product, error) {
	stmt := db.WithContext(ctx).
		Preload("Sizes").
		Preload("Materials").
		Order("created_at DESC")

	if req.ActiveOnly {
		stmt = stmt.Where("active = ?", true)
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		stmt = stmt.Where("name LIKE ?", "%"+search+"%")
	}
	if req.Limit > 0 {
		stmt = stmt.Limit(req.Limit)
	}
	if req.Offset > 0 {
		stmt = stmt.Offset(req.Offset)
	}

	var products []catalogdomain.Product
	err := stmt.Find(&products).Error
	return products, err
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *catalogdomain.Product) error {
	return db.WithContext(ctx).Save(product).Error
}
