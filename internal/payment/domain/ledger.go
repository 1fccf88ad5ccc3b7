package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidScheme     = errors.New("invalid_scheme")
	ErrInvalidTranche    = errors.New("invalid_tranche")
	ErrAmountMismatch    = errors.New("amount_mismatch")
	ErrTrancheExpired    = errors.New("tranche_expired")
	ErrTrancheNotPayable = errors.New("tranche_not_payable")
	ErrLedgerNotFound    = errors.New("ledger_not_found")
	ErrLedgerExists      = errors.New("ledger_exists")
)

// SplitDownPayment computes the down-payment tranche for the given percent
// of the total (round half up) and the remaining balance. The two amounts
// always sum back to totalDue.
func SplitDownPayment(totalDue int64, percent int) (downPayment, remaining int64) {
	downPayment = (totalDue*int64(percent) + 50) / 100
	remaining = totalDue - downPayment
	return downPayment, remaining
}

// FindTranche returns the ledger's tranche of the given kind, or nil.
func (l *Ledger) FindTranche(kind TrancheKind) *Tranche {
	for i := range l.Tranches {
		if l.Tranches[i].Kind == kind {
			return &l.Tranches[i]
		}
	}
	return nil
}

// Apply records a payment against the tranche of the given kind, in memory.
// The tendered amount must equal the tranche amount exactly; the engine
// accepts no partial or overpaid tranches. On success the tranche is marked
// paid and FullyPaid is recomputed. On failure the ledger is unchanged.
func (l *Ledger) Apply(kind TrancheKind, amount int64, method, gatewayRef string, now time.Time) error {
	if !kind.Valid() {
		return ErrInvalidTranche
	}

	tranche := l.FindTranche(kind)
	if tranche == nil {
		return ErrInvalidTranche
	}

	switch tranche.Status {
	case TrancheStatusExpired:
		// An expired down payment cannot be paid; it must be re-issued.
		return ErrTrancheExpired
	case TrancheStatusPaid:
		return ErrTrancheNotPayable
	}

	if amount != tranche.Amount {
		return ErrAmountMismatch
	}

	paidAt := now.UTC()
	tranche.Status = TrancheStatusPaid
	tranche.Method = method
	tranche.GatewayRef = gatewayRef
	tranche.PaidAt = &paidAt
	tranche.UpdatedAt = paidAt

	l.FullyPaid = l.computeFullyPaid()
	l.UpdatedAt = paidAt
	return nil
}

// ExpireDownPayment marks a still-pending down payment expired once its due
// date has elapsed. Reports whether the tranche changed.
func (l *Ledger) ExpireDownPayment(now time.Time) bool {
	tranche := l.FindTranche(TrancheDownPayment)
	if tranche == nil || tranche.Status != TrancheStatusPending {
		return false
	}
	if tranche.DueAt == nil || tranche.DueAt.After(now) {
		return false
	}
	tranche.Status = TrancheStatusExpired
	tranche.UpdatedAt = now.UTC()
	l.UpdatedAt = now.UTC()
	return true
}

// computeFullyPaid mirrors the ledger invariant: a single paid full-payment
// tranche, or a paid down payment plus a paid remainder.
func (l *Ledger) computeFullyPaid() bool {
	if full := l.FindTranche(TrancheFullPayment); full != nil {
		return full.Status == TrancheStatusPaid
	}

	down := l.FindTranche(TrancheDownPayment)
	remaining := l.FindTranche(TrancheRemainingPayment)
	if down == nil || remaining == nil {
		return false
	}
	return down.Status == TrancheStatusPaid && remaining.Status == TrancheStatusPaid
}
