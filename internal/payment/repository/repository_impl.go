package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() paymentdomain.Repository { return &repo{} }

func (r *repo) Insert(ctx context.Context, db *gorm.DB, ledger *paymentdomain.Ledger) error {
	return db.WithContext(ctx).Create(ledger).Error
}

func (r *repo) FindByOrder(ctx context.Context, db *gorm.DB, orderID snowflake.ID, forUpdate bool) (*paymentdomain.Ledger, error) {
	stmt := db.WithContext(ctx).Preload("Tranches")
	// sqlite has no row locks; the whole database locks on write instead.
	if forUpdate && db.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ledger paymentdomain.Ledger
	err := stmt.First(&ledger, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ledger, nil
}

func (r *repo) SaveTranche(ctx context.Context, db *gorm.DB, tranche *paymentdomain.Tranche) error {
	return db.WithContext(ctx).Save(tranche).Error
}

func (r *repo) SaveLedger(ctx context.Context, db *gorm.DB, ledger *paymentdomain.Ledger) error {
	return db.WithContext(ctx).Omit("Tranches").Save(ledger).Error
}

func (r *repo) InsertTranche(ctx context.Context, db *gorm.DB, tranche *paymentdomain.Tranche) error {
	return db.WithContext(ctx).Create(tranche).Error
}

func (r *repo) ListOverdueDownPayments(ctx context.Context, db *gorm.DB, now time.Time) ([]paymentdomain.Ledger, error) {
	var ledgers []paymentdomain.Ledger
	err := db.WithContext(ctx).
		Preload("Tranches").
		Joins("JOIN payment_tranches ON payment_tranches.ledger_id = payment_ledgers.id").
		Where("payment_tranches.kind = ?", paymentdomain.TrancheDownPayment).
		Where("payment_tranches.status = ?", paymentdomain.TrancheStatusPending).
		Where("payment_tranches.due_at IS NOT NULL AND payment_tranches.due_at <= ?", now).
		Find(&ledgers).Error
	return ledgers, err
}
