// Package seed bootstraps a fresh database with a default admin login and
// a sample product so a self-hosted install is usable immediately.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/tailorline/internal/auth/domain"
	catalogdomain "github.com/smallbiznis/tailorline/internal/catalog/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@tailorline.local"
	defaultAdminPassword = "admin"
	defaultAdminName     = "Tailorline Admin"

	sampleProductName = "Classic Shirt"
)

// EnsureDefaultAdmin seeds the default admin user when no account exists
// with the bootstrap email. The password is for first login only.
func EnsureDefaultAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user authdomain.User
		err := tx.WithContext(ctx).
			Where("email = ?", strings.ToLower(defaultAdminEmail)).
			First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		user = authdomain.User{
			ID:           node.Generate(),
			Name:         defaultAdminName,
			Email:        strings.ToLower(defaultAdminEmail),
			PasswordHash: string(hashed),
			Role:         authdomain.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.WithContext(ctx).Create(&user).Error
	})
}

// EnsureSampleProduct seeds one product with a full rate card so the quote
// and order endpoints can be exercised on an empty install.
func EnsureSampleProduct(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&catalogdomain.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		dozen := int64(45000)
		now := time.Now().UTC()
		product := catalogdomain.Product{
			ID:              node.Generate(),
			Name:            sampleProductName,
			Description:     "Made-to-order shirt with standard fabric options",
			UnitPrice:       50000,
			DozenUnitPrice:  &dozen,
			DozenThreshold:  12,
			DiscountPercent: 5,
			CustomDesignFee: 25000,
			Active:          true,
			CreatedAt:       now,
			UpdatedAt:       now,
			Sizes: []catalogdomain.ProductSize{
				{ID: node.Generate(), Label: "S", AdditionalPrice: 0},
				{ID: node.Generate(), Label: "M", AdditionalPrice: 0},
				{ID: node.Generate(), Label: "L", AdditionalPrice: 2000},
				{ID: node.Generate(), Label: "XL", AdditionalPrice: 4000},
			},
			Materials: []catalogdomain.ProductMaterial{
				{ID: node.Generate(), Name: "Cotton", AdditionalPrice: 0},
				{ID: node.Generate(), Name: "Linen", AdditionalPrice: 5000},
			},
		}
		return tx.WithContext(ctx).Create(&product).Error
	})
}
