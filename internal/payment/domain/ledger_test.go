package domain

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func downPaymentLedger(t *testing.T, totalDue int64, percent int, dueAt *time.Time) *Ledger {
	t.Helper()
	node := testNode(t)
	down, remaining := SplitDownPayment(totalDue, percent)
	ledger := &Ledger{
		ID:       node.Generate(),
		OrderID:  node.Generate(),
		TotalDue: totalDue,
		Scheme:   SchemeDownPayment,
		Tranches: []Tranche{
			{ID: node.Generate(), Kind: TrancheDownPayment, Amount: down, Status: TrancheStatusPending, DueAt: dueAt},
			{ID: node.Generate(), Kind: TrancheRemainingPayment, Amount: remaining, Status: TrancheStatusPending},
		},
	}
	return ledger
}

func TestSplitDownPayment(t *testing.T) {
	down, remaining := SplitDownPayment(1000000, 30)
	assert.Equal(t, int64(300000), down)
	assert.Equal(t, int64(700000), remaining)

	// Round half up on an odd total.
	down, remaining = SplitDownPayment(1005, 30)
	assert.Equal(t, int64(302), down)
	assert.Equal(t, int64(703), remaining)
	assert.Equal(t, int64(1005), down+remaining)

	down, remaining = SplitDownPayment(1, 30)
	assert.Equal(t, int64(1), down+remaining)
}

func TestLedgerApply_DownPaymentThenRemainder(t *testing.T) {
	ledger := downPaymentLedger(t, 1000000, 30, nil)
	now := time.Now().UTC()

	require.NoError(t, ledger.Apply(TrancheDownPayment, 300000, "cash", "manual-1", now))
	assert.False(t, ledger.FullyPaid)

	down := ledger.FindTranche(TrancheDownPayment)
	assert.Equal(t, TrancheStatusPaid, down.Status)
	assert.Equal(t, "cash", down.Method)
	require.NotNil(t, down.PaidAt)

	require.NoError(t, ledger.Apply(TrancheRemainingPayment, 700000, "transfer", "manual-2", now))
	assert.True(t, ledger.FullyPaid)
}

func TestLedgerApply_FullPayment(t *testing.T) {
	node := testNode(t)
	ledger := &Ledger{
		ID:       node.Generate(),
		OrderID:  node.Generate(),
		TotalDue: 495000,
		Scheme:   SchemeFull,
		Tranches: []Tranche{
			{ID: node.Generate(), Kind: TrancheFullPayment, Amount: 495000, Status: TrancheStatusPending},
		},
	}

	require.NoError(t, ledger.Apply(TrancheFullPayment, 495000, "cash", "manual-1", time.Now()))
	assert.True(t, ledger.FullyPaid)
}

func TestLedgerApply_AmountMustMatchExactly(t *testing.T) {
	ledger := downPaymentLedger(t, 1000000, 30, nil)

	err := ledger.Apply(TrancheDownPayment, 299999, "cash", "", time.Now())
	assert.ErrorIs(t, err, ErrAmountMismatch)

	err = ledger.Apply(TrancheDownPayment, 300001, "cash", "", time.Now())
	assert.ErrorIs(t, err, ErrAmountMismatch)

	// Nothing changed.
	assert.Equal(t, TrancheStatusPending, ledger.FindTranche(TrancheDownPayment).Status)
	assert.False(t, ledger.FullyPaid)
}

func TestLedgerApply_PaidTrancheIsNotPayableAgain(t *testing.T) {
	ledger := downPaymentLedger(t, 1000000, 30, nil)
	require.NoError(t, ledger.Apply(TrancheDownPayment, 300000, "cash", "", time.Now()))

	err := ledger.Apply(TrancheDownPayment, 300000, "cash", "", time.Now())
	assert.ErrorIs(t, err, ErrTrancheNotPayable)
}

func TestLedgerApply_UnknownTranche(t *testing.T) {
	ledger := downPaymentLedger(t, 1000000, 30, nil)

	err := ledger.Apply(TrancheFullPayment, 1000000, "cash", "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidTranche)

	err = ledger.Apply(TrancheKind("INSTALLMENT"), 300000, "cash", "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidTranche)
}

func TestLedgerExpireDownPayment(t *testing.T) {
	due := time.Now().Add(-time.Hour).UTC()
	ledger := downPaymentLedger(t, 1000000, 30, &due)
	now := time.Now().UTC()

	require.True(t, ledger.ExpireDownPayment(now))
	assert.Equal(t, TrancheStatusExpired, ledger.FindTranche(TrancheDownPayment).Status)

	// Expired tranches reject payment until reissued.
	err := ledger.Apply(TrancheDownPayment, 300000, "cash", "", now)
	assert.ErrorIs(t, err, ErrTrancheExpired)

	// A second sweep is a no-op.
	assert.False(t, ledger.ExpireDownPayment(now))
}

func TestLedgerExpireDownPayment_NotYetDue(t *testing.T) {
	due := time.Now().Add(time.Hour).UTC()
	ledger := downPaymentLedger(t, 1000000, 30, &due)

	assert.False(t, ledger.ExpireDownPayment(time.Now().UTC()))
	assert.Equal(t, TrancheStatusPending, ledger.FindTranche(TrancheDownPayment).Status)
}

func TestLedgerExpireDownPayment_PaidIsUntouched(t *testing.T) {
	due := time.Now().Add(-time.Hour).UTC()
	ledger := downPaymentLedger(t, 1000000, 30, &due)
	require.NoError(t, ledger.Apply(TrancheDownPayment, 300000, "cash", "", time.Now()))

	assert.False(t, ledger.ExpireDownPayment(time.Now().UTC()))
	assert.Equal(t, TrancheStatusPaid, ledger.FindTranche(TrancheDownPayment).Status)
}

func TestComputeFullyPaid_RemainderAloneIsNotEnough(t *testing.T) {
	ledger := downPaymentLedger(t, 1000000, 30, nil)

	require.NoError(t, ledger.Apply(TrancheRemainingPayment, 700000, "transfer", "", time.Now()))
	assert.False(t, ledger.FullyPaid)
}
