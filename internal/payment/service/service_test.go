package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/tailorline/internal/clock"
	"github.com/smallbiznis/tailorline/internal/config"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
	"github.com/smallbiznis/tailorline/internal/payment/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *clock.FakeClock, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&paymentdomain.Ledger{}, &paymentdomain.Tranche{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  fake,
		Config: config.Config{DownPaymentPercent: 30, DownPaymentDueHours: 48},
		Repo:   repository.Provide(),
	})
	return svc, fake, db
}

func issueTestLedger(t *testing.T, svc *Service, db *gorm.DB, totalDue int64, scheme paymentdomain.Scheme, dueAt *time.Time) *paymentdomain.Ledger {
	t.Helper()

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	ledger, err := svc.IssueLedger(context.Background(), db, paymentdomain.IssueRequest{
		OrderID:  node.Generate(),
		TotalDue: totalDue,
		Scheme:   scheme,
		DueAt:    dueAt,
	})
	require.NoError(t, err)
	return ledger
}

func TestIssueLedger_FullScheme(t *testing.T) {
	svc, _, db := newTestService(t)

	ledger := issueTestLedger(t, svc, db, 495000, paymentdomain.SchemeFull, nil)

	require.Len(t, ledger.Tranches, 1)
	assert.Equal(t, paymentdomain.TrancheFullPayment, ledger.Tranches[0].Kind)
	assert.Equal(t, int64(495000), ledger.Tranches[0].Amount)
	assert.Equal(t, paymentdomain.TrancheStatusPending, ledger.Tranches[0].Status)
	assert.False(t, ledger.FullyPaid)
}

func TestIssueLedger_DownPaymentScheme(t *testing.T) {
	svc, fake, db := newTestService(t)
	due := fake.Now().Add(24 * time.Hour)

	ledger := issueTestLedger(t, svc, db, 1000000, paymentdomain.SchemeDownPayment, &due)

	require.Len(t, ledger.Tranches, 2)
	down := ledger.FindTranche(paymentdomain.TrancheDownPayment)
	remaining := ledger.FindTranche(paymentdomain.TrancheRemainingPayment)
	require.NotNil(t, down)
	require.NotNil(t, remaining)
	assert.Equal(t, int64(300000), down.Amount)
	assert.Equal(t, int64(700000), remaining.Amount)
	require.NotNil(t, down.DueAt)
	assert.True(t, down.DueAt.Equal(due))
	assert.Nil(t, remaining.DueAt)
}

func TestIssueLedger_Validation(t *testing.T) {
	svc, _, db := newTestService(t)
	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	_, err = svc.IssueLedger(context.Background(), db, paymentdomain.IssueRequest{
		OrderID:  node.Generate(),
		TotalDue: 0,
		Scheme:   paymentdomain.SchemeFull,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidAmount)

	_, err = svc.IssueLedger(context.Background(), db, paymentdomain.IssueRequest{
		OrderID:  node.Generate(),
		TotalDue: 1000,
		Scheme:   paymentdomain.Scheme("INSTALLMENT"),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidScheme)
}

func TestIssueLedger_OnePerOrder(t *testing.T) {
	svc, _, db := newTestService(t)
	ledger := issueTestLedger(t, svc, db, 1000, paymentdomain.SchemeFull, nil)

	_, err := svc.IssueLedger(context.Background(), db, paymentdomain.IssueRequest{
		OrderID:  ledger.OrderID,
		TotalDue: 1000,
		Scheme:   paymentdomain.SchemeFull,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrLedgerExists)
}

func TestRecordPayment_DownPaymentFlow(t *testing.T) {
	svc, fake, db := newTestService(t)
	due := fake.Now().Add(24 * time.Hour)
	ledger := issueTestLedger(t, svc, db, 1000000, paymentdomain.SchemeDownPayment, &due)
	orderID := ledger.OrderID.String()

	resp, err := svc.RecordPayment(context.Background(), paymentdomain.RecordRequest{
		OrderID: orderID,
		Kind:    paymentdomain.TrancheDownPayment,
		Amount:  300000,
		Method:  "cash",
	})
	require.NoError(t, err)
	assert.False(t, resp.FullyPaid)

	resp, err = svc.RecordPayment(context.Background(), paymentdomain.RecordRequest{
		OrderID:    orderID,
		Kind:       paymentdomain.TrancheRemainingPayment,
		Amount:     700000,
		Method:     "transfer",
		GatewayRef: "trx-001",
	})
	require.NoError(t, err)
	assert.True(t, resp.FullyPaid)

	// The persisted ledger agrees with the response.
	paid, err := svc.IsFullyPaid(context.Background(), db, ledger.OrderID)
	require.NoError(t, err)
	assert.True(t, paid)
}

func TestRecordPayment_AmountMismatchChangesNothing(t *testing.T) {
	svc, _, db := newTestService(t)
	ledger := issueTestLedger(t, svc, db, 1000000, paymentdomain.SchemeDownPayment, nil)

	_, err := svc.RecordPayment(context.Background(), paymentdomain.RecordRequest{
		OrderID: ledger.OrderID.String(),
		Kind:    paymentdomain.TrancheDownPayment,
		Amount:  250000,
		Method:  "cash",
	})
	assert.ErrorIs(t, err, paymentdomain.ErrAmountMismatch)

	stored, err := svc.GetByOrder(context.Background(), ledger.OrderID.String())
	require.NoError(t, err)
	assert.False(t, stored.FullyPaid)
	for _, tranche := range stored.Tranches {
		assert.Equal(t, paymentdomain.TrancheStatusPending, tranche.Status)
	}
}

func TestRecordPayment_ManualGatewayRefAssigned(t *testing.T) {
	svc, _, db := newTestService(t)
	ledger := issueTestLedger(t, svc, db, 1000, paymentdomain.SchemeFull, nil)

	resp, err := svc.RecordPayment(context.Background(), paymentdomain.RecordRequest{
		OrderID: ledger.OrderID.String(),
		Kind:    paymentdomain.TrancheFullPayment,
		Amount:  1000,
		Method:  "cash",
	})
	require.NoError(t, err)
	require.Len(t, resp.Tranches, 1)
	assert.Contains(t, resp.Tranches[0].GatewayRef, "manual-")
}

func TestRecordPayment_MethodRequired(t *testing.T) {
	svc, _, db := newTestService(t)
	ledger := issueTestLedger(t, svc, db, 1000, paymentdomain.SchemeFull, nil)

	_, err := svc.RecordPayment(context.Background(), paymentdomain.RecordRequest{
		OrderID: ledger.OrderID.String(),
		Kind:    paymentdomain.TrancheFullPayment,
		Amount:  1000,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidTranche)
}

func TestRecordPayment_UnknownOrder(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.RecordPayment(context.Background(), paymentdomain.RecordRequest{
		OrderID: "999999999999",
		Kind:    paymentdomain.TrancheFullPayment,
		Amount:  1000,
		Method:  "cash",
	})
	assert.ErrorIs(t, err, paymentdomain.ErrLedgerNotFound)
}

func TestExpireDuePayments_SweepAndReissue(t *testing.T) {
	svc, fake, db := newTestService(t)
	due := fake.Now().Add(24 * time.Hour)
	ledger := issueTestLedger(t, svc, db, 1000000, paymentdomain.SchemeDownPayment, &due)
	orderID := ledger.OrderID.String()

	// Nothing is overdue yet.
	expired, err := svc.ExpireDuePayments(context.Background(), fake.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)

	fake.Advance(25 * time.Hour)
	expired, err = svc.ExpireDuePayments(context.Background(), fake.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	// The expired tranche refuses payment.
	_, err = svc.RecordPayment(context.Background(), paymentdomain.RecordRequest{
		OrderID: orderID,
		Kind:    paymentdomain.TrancheDownPayment,
		Amount:  300000,
		Method:  "cash",
	})
	assert.ErrorIs(t, err, paymentdomain.ErrTrancheExpired)

	// Reissuing restores a payable pending tranche with the new due date.
	newDue := fake.Now().Add(48 * time.Hour)
	resp, err := svc.ReissueDownPayment(context.Background(), orderID, newDue)
	require.NoError(t, err)
	down := findTrancheResponse(resp, paymentdomain.TrancheDownPayment)
	require.NotNil(t, down)
	assert.Equal(t, paymentdomain.TrancheStatusPending, down.Status)

	_, err = svc.RecordPayment(context.Background(), paymentdomain.RecordRequest{
		OrderID: orderID,
		Kind:    paymentdomain.TrancheDownPayment,
		Amount:  300000,
		Method:  "cash",
	})
	require.NoError(t, err)
}

func TestReissueDownPayment_DefaultsDueDateFromConfig(t *testing.T) {
	svc, fake, db := newTestService(t)
	due := fake.Now().Add(24 * time.Hour)
	ledger := issueTestLedger(t, svc, db, 1000000, paymentdomain.SchemeDownPayment, &due)
	orderID := ledger.OrderID.String()

	fake.Advance(25 * time.Hour)
	expired, err := svc.ExpireDuePayments(context.Background(), fake.Now())
	require.NoError(t, err)
	require.Equal(t, 1, expired)

	// No due date supplied: the configured window counts from the injected
	// clock, not the wall clock.
	resp, err := svc.ReissueDownPayment(context.Background(), orderID, time.Time{})
	require.NoError(t, err)
	down := findTrancheResponse(resp, paymentdomain.TrancheDownPayment)
	require.NotNil(t, down)
	assert.Equal(t, paymentdomain.TrancheStatusPending, down.Status)
	require.NotNil(t, down.DueAt)
	assert.True(t, down.DueAt.Equal(fake.Now().Add(48*time.Hour)))
}

func TestReissueDownPayment_OnlyExpired(t *testing.T) {
	svc, fake, db := newTestService(t)
	due := fake.Now().Add(24 * time.Hour)
	ledger := issueTestLedger(t, svc, db, 1000000, paymentdomain.SchemeDownPayment, &due)

	_, err := svc.ReissueDownPayment(context.Background(), ledger.OrderID.String(), fake.Now().Add(48*time.Hour))
	assert.ErrorIs(t, err, paymentdomain.ErrTrancheNotPayable)
}

func TestIsFullyPaid_MissingLedger(t *testing.T) {
	svc, _, db := newTestService(t)
	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	_, err = svc.IsFullyPaid(context.Background(), db, node.Generate())
	assert.ErrorIs(t, err, paymentdomain.ErrLedgerNotFound)
}

func findTrancheResponse(resp *paymentdomain.LedgerResponse, kind paymentdomain.TrancheKind) *paymentdomain.TrancheResponse {
	for i := range resp.Tranches {
		if resp.Tranches[i].Kind == kind {
			return &resp.Tranches[i]
		}
	}
	return nil
}
