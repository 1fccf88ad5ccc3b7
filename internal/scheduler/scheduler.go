// Package scheduler runs the recurring background jobs. The only job today
// is the down-payment expiry sweep; expiry is an external event the payment
// engine never polls for on its own.
package scheduler

import (
	"context"
	"time"

	"github.com/smallbiznis/tailorline/internal/clock"
	"github.com/smallbiznis/tailorline/internal/config"
	obsmetrics "github.com/smallbiznis/tailorline/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	Config     config.Config
	PaymentSvc paymentdomain.Service
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Scheduler struct {
	log        *zap.Logger
	clock      clock.Clock
	interval   time.Duration
	paymentSvc paymentdomain.Service
	metrics    *obsmetrics.Metrics

	stop chan struct{}
	done chan struct{}
}

func New(p Params) *Scheduler {
	interval := time.Duration(p.Config.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Scheduler{
		log:        p.Log.Named("scheduler"),
		clock:      p.Clock,
		interval:   interval,
		paymentSvc: p.PaymentSvc,
		metrics:    p.Metrics,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	expired, err := s.paymentSvc.ExpireDuePayments(ctx, s.clock.Now())
	if err != nil {
		s.log.Error("down-payment sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		if s.metrics != nil {
			s.metrics.DownPaymentsExpired(expired)
		}
		s.log.Info("down-payment sweep", zap.Int("expired", expired))
	}
}

func registerHooks(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go s.run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(s.stop)
			select {
			case <-s.done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(registerHooks),
)
