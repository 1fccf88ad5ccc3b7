package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/tailorline/internal/clock"
	"github.com/smallbiznis/tailorline/internal/config"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"go.uber.org/zap"
)

type stubPaymentSvc struct {
	calls   int
	lastNow time.Time
	expired int
	err     error
}

func (s *stubPaymentSvc) IssueLedger(ctx context.Context, tx *gorm.DB, req paymentdomain.IssueRequest) (*paymentdomain.Ledger, error) {
	return nil, nil
}

func (s *stubPaymentSvc) RecordPayment(ctx context.Context, req paymentdomain.RecordRequest) (*paymentdomain.LedgerResponse, error) {
	return nil, nil
}

func (s *stubPaymentSvc) ReissueDownPayment(ctx context.Context, orderID string, dueAt time.Time) (*paymentdomain.LedgerResponse, error) {
	return nil, nil
}

func (s *stubPaymentSvc) GetByOrder(ctx context.Context, orderID string) (*paymentdomain.LedgerResponse, error) {
	return nil, nil
}

func (s *stubPaymentSvc) ExpireDuePayments(ctx context.Context, now time.Time) (int, error) {
	s.calls++
	s.lastNow = now
	return s.expired, s.err
}

func TestSweepUsesInjectedClock(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	stub := &stubPaymentSvc{expired: 2}

	s := New(Params{
		Log:        zap.NewNop(),
		Clock:      fake,
		Config:     config.Config{SweepIntervalMinutes: 10},
		PaymentSvc: stub,
	})

	s.sweep()
	assert.Equal(t, 1, stub.calls)
	assert.True(t, stub.lastNow.Equal(fake.Now()))

	fake.Advance(time.Hour)
	s.sweep()
	assert.Equal(t, 2, stub.calls)
	assert.True(t, stub.lastNow.Equal(fake.Now()))
}

func TestSweepSurvivesErrors(t *testing.T) {
	stub := &stubPaymentSvc{err: errors.New("db gone")}

	s := New(Params{
		Log:        zap.NewNop(),
		Clock:      clock.NewFakeClock(time.Now()),
		Config:     config.Config{SweepIntervalMinutes: 10},
		PaymentSvc: stub,
	})

	s.sweep()
	s.sweep()
	assert.Equal(t, 2, stub.calls)
}

func TestNewDefaultsInterval(t *testing.T) {
	s := New(Params{
		Log:        zap.NewNop(),
		Clock:      clock.NewFakeClock(time.Now()),
		Config:     config.Config{},
		PaymentSvc: &stubPaymentSvc{},
	})
	assert.Equal(t, 10*time.Minute, s.interval)
}
