package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, ledger *Ledger) error
	// FindByOrder loads a ledger with its tranches. With forUpdate the row
	// is locked for the span of the surrounding transaction.
	FindByOrder(ctx context.Context, db *gorm.DB, orderID snowflake.ID, forUpdate bool) (*Ledger, error)
	SaveTranche(ctx context.Context, db *gorm.DB, tranche *Tranche) error
	SaveLedger(ctx context.Context, db *gorm.DB, ledger *Ledger) error
	InsertTranche(ctx context.Context, db *gorm.DB, tranche *Tranche) error
	// ListOverdueDownPayments returns ledgers whose down payment is still
	// pending past its due date.
	ListOverdueDownPayments(ctx context.Context, db *gorm.DB, now time.Time) ([]Ledger, error)
}
