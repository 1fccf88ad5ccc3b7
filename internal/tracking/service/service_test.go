package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/smallbiznis/tailorline/internal/auth/domain"
	"github.com/smallbiznis/tailorline/internal/clock"
	orderdomain "github.com/smallbiznis/tailorline/internal/order/domain"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
	"github.com/smallbiznis/tailorline/internal/pricing"
	trackingdomain "github.com/smallbiznis/tailorline/internal/tracking/domain"
	"github.com/smallbiznis/tailorline/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockOrderSvc struct {
	mock.Mock
}

func (m *mockOrderSvc) Create(ctx context.Context, actor authdomain.ActingUser, req orderdomain.CreateRequest) (*orderdomain.Response, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderdomain.Response), args.Error(1)
}

func (m *mockOrderSvc) Get(ctx context.Context, id string) (*orderdomain.Response, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderdomain.Response), args.Error(1)
}

func (m *mockOrderSvc) List(ctx context.Context, req orderdomain.ListRequest) ([]orderdomain.Response, pagination.PageInfo, error) {
	args := m.Called(ctx, req)
	return nil, pagination.PageInfo{}, args.Error(1)
}

func (m *mockOrderSvc) Transition(ctx context.Context, actor authdomain.ActingUser, req orderdomain.TransitionRequest) (*orderdomain.Response, error) {
	args := m.Called(ctx, actor, req)
	return nil, args.Error(1)
}

func (m *mockOrderSvc) Quote(ctx context.Context, req orderdomain.QuoteRequest) (*pricing.LineItemPriceBreakdown, error) {
	args := m.Called(ctx, req)
	return nil, args.Error(1)
}

type mockPaymentSvc struct {
	mock.Mock
}

func (m *mockPaymentSvc) IssueLedger(ctx context.Context, tx *gorm.DB, req paymentdomain.IssueRequest) (*paymentdomain.Ledger, error) {
	args := m.Called(ctx, tx, req)
	return nil, args.Error(1)
}

func (m *mockPaymentSvc) RecordPayment(ctx context.Context, req paymentdomain.RecordRequest) (*paymentdomain.LedgerResponse, error) {
	args := m.Called(ctx, req)
	return nil, args.Error(1)
}

func (m *mockPaymentSvc) ReissueDownPayment(ctx context.Context, orderID string, dueAt time.Time) (*paymentdomain.LedgerResponse, error) {
	args := m.Called(ctx, orderID, dueAt)
	return nil, args.Error(1)
}

func (m *mockPaymentSvc) GetByOrder(ctx context.Context, orderID string) (*paymentdomain.LedgerResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentdomain.LedgerResponse), args.Error(1)
}

func (m *mockPaymentSvc) ExpireDuePayments(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func newTrackingService(t *testing.T, orders *mockOrderSvc, payments *mockPaymentSvc) trackingdomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&trackingdomain.Token{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		OrderSvc:   orders,
		PaymentSvc: payments,
	})
}

func TestEnsureForOrder_MintsOnce(t *testing.T) {
	orders := &mockOrderSvc{}
	payments := &mockPaymentSvc{}
	svc := newTrackingService(t, orders, payments)
	ctx := context.Background()

	orderID := snowflake.ID(7365948123456789).String()
	orders.On("Get", mock.Anything, orderID).Return(&orderdomain.Response{ID: orderID}, nil).Once()

	token, err := svc.EnsureForOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, token.Value, 26) // ULID canonical form

	// Second call returns the stored token without touching the order.
	again, err := svc.EnsureForOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, token.Value, again.Value)
	orders.AssertExpectations(t)
}

func TestEnsureForOrder_InvalidOrder(t *testing.T) {
	svc := newTrackingService(t, &mockOrderSvc{}, &mockPaymentSvc{})

	_, err := svc.EnsureForOrder(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, trackingdomain.ErrInvalidOrder)
}

func TestEnsureForOrder_UnknownOrder(t *testing.T) {
	orders := &mockOrderSvc{}
	svc := newTrackingService(t, orders, &mockPaymentSvc{})

	orderID := snowflake.ID(42).String()
	orders.On("Get", mock.Anything, orderID).Return(nil, orderdomain.ErrNotFound)

	_, err := svc.EnsureForOrder(context.Background(), orderID)
	assert.ErrorIs(t, err, orderdomain.ErrNotFound)
}

func TestResolve_PublicView(t *testing.T) {
	orders := &mockOrderSvc{}
	payments := &mockPaymentSvc{}
	svc := newTrackingService(t, orders, payments)
	ctx := context.Background()

	orderID := snowflake.ID(7365948123456789).String()
	orders.On("Get", mock.Anything, orderID).Return(&orderdomain.Response{
		ID:           orderID,
		CustomerName: "PT Maju Jaya",
		Status:       orderdomain.StatusInProduction,
		TotalAmount:  486000,
	}, nil)
	payments.On("GetByOrder", mock.Anything, orderID).Return(&paymentdomain.LedgerResponse{
		OrderID:   orderID,
		TotalDue:  486000,
		FullyPaid: false,
	}, nil)

	token, err := svc.EnsureForOrder(ctx, orderID)
	require.NoError(t, err)

	public, err := svc.Resolve(ctx, token.Value)
	require.NoError(t, err)
	assert.Equal(t, "PT Maju Jaya", public.CustomerName)
	assert.Equal(t, orderdomain.StatusInProduction, public.Status)
	assert.Equal(t, int64(486000), public.TotalAmount)
	require.NotNil(t, public.Payment)
	assert.False(t, public.Payment.FullyPaid)
}

func TestResolve_UnknownToken(t *testing.T) {
	svc := newTrackingService(t, &mockOrderSvc{}, &mockPaymentSvc{})

	_, err := svc.Resolve(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, trackingdomain.ErrInvalidToken)

	_, err = svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, trackingdomain.ErrInvalidToken)
}
