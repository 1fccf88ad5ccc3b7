package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/tailorline/internal/clock"
	"github.com/smallbiznis/tailorline/internal/config"
	obsmetrics "github.com/smallbiznis/tailorline/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Config  config.Config
	Repo    paymentdomain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	cfg     config.Config
	repo    paymentdomain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) *Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("payment.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		cfg:     p.Config,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) IssueLedger(ctx context.Context, tx *gorm.DB, req paymentdomain.IssueRequest) (*paymentdomain.Ledger, error) {
	if req.TotalDue <= 0 {
		return nil, paymentdomain.ErrInvalidAmount
	}

	existing, err := s.repo.FindByOrder(ctx, tx, req.OrderID, false)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, paymentdomain.ErrLedgerExists
	}

	now := s.clock.Now()
	ledger := &paymentdomain.Ledger{
		ID:        s.genID.Generate(),
		OrderID:   req.OrderID,
		TotalDue:  req.TotalDue,
		Scheme:    req.Scheme,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch req.Scheme {
	case paymentdomain.SchemeFull:
		ledger.Tranches = []paymentdomain.Tranche{{
			ID:        s.genID.Generate(),
			LedgerID:  ledger.ID,
			OrderID:   req.OrderID,
			Kind:      paymentdomain.TrancheFullPayment,
			Amount:    req.TotalDue,
			Status:    paymentdomain.TrancheStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}}
	case paymentdomain.SchemeDownPayment:
		downPayment, remaining := paymentdomain.SplitDownPayment(req.TotalDue, s.cfg.DownPaymentPercent)
		ledger.Tranches = []paymentdomain.Tranche{
			{
				ID:        s.genID.Generate(),
				LedgerID:  ledger.ID,
				OrderID:   req.OrderID,
				Kind:      paymentdomain.TrancheDownPayment,
				Amount:    downPayment,
				Status:    paymentdomain.TrancheStatusPending,
				DueAt:     req.DueAt,
				CreatedAt: now,
				UpdatedAt: now,
			},
			{
				ID:        s.genID.Generate(),
				LedgerID:  ledger.ID,
				OrderID:   req.OrderID,
				Kind:      paymentdomain.TrancheRemainingPayment,
				Amount:    remaining,
				Status:    paymentdomain.TrancheStatusPending,
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
	default:
		return nil, paymentdomain.ErrInvalidScheme
	}

	if err := s.repo.Insert(ctx, tx, ledger); err != nil {
		return nil, err
	}

	return ledger, nil
}

func (s *Service) RecordPayment(ctx context.Context, req paymentdomain.RecordRequest) (*paymentdomain.LedgerResponse, error) {
	orderID, err := parseID(req.OrderID)
	if err != nil {
		return nil, paymentdomain.ErrLedgerNotFound
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		return nil, paymentdomain.ErrInvalidTranche
	}
	gatewayRef := strings.TrimSpace(req.GatewayRef)
	if gatewayRef == "" {
		// Manual/cash payments have no gateway transaction; keep the
		// reference unique anyway so reconciliation can key on it.
		gatewayRef = "manual-" + uuid.NewString()
	}

	var resp *paymentdomain.LedgerResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger, err := s.repo.FindByOrder(ctx, tx, orderID, true)
		if err != nil {
			return err
		}
		if ledger == nil {
			return paymentdomain.ErrLedgerNotFound
		}

		if err := ledger.Apply(req.Kind, req.Amount, method, gatewayRef, s.clock.Now()); err != nil {
			return err
		}

		tranche := ledger.FindTranche(req.Kind)
		if err := s.repo.SaveTranche(ctx, tx, tranche); err != nil {
			return err
		}
		if err := s.repo.SaveLedger(ctx, tx, ledger); err != nil {
			return err
		}

		resp = toResponse(ledger)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPayment(string(req.Kind), method)
	}
	s.log.Info("payment recorded",
		zap.String("order_id", req.OrderID),
		zap.String("kind", string(req.Kind)),
		zap.Int64("amount", req.Amount),
		zap.Bool("fully_paid", resp.FullyPaid),
	)

	return resp, nil
}

func (s *Service) ReissueDownPayment(ctx context.Context, orderID string, dueAt time.Time) (*paymentdomain.LedgerResponse, error) {
	id, err := parseID(orderID)
	if err != nil {
		return nil, paymentdomain.ErrLedgerNotFound
	}

	var resp *paymentdomain.LedgerResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger, err := s.repo.FindByOrder(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if ledger == nil {
			return paymentdomain.ErrLedgerNotFound
		}

		tranche := ledger.FindTranche(paymentdomain.TrancheDownPayment)
		if tranche == nil {
			return paymentdomain.ErrInvalidTranche
		}
		if tranche.Status != paymentdomain.TrancheStatusExpired {
			return paymentdomain.ErrTrancheNotPayable
		}

		now := s.clock.Now()
		due := dueAt.UTC()
		if dueAt.IsZero() {
			// No explicit due date: the configured down-payment window
			// applies from now.
			hours := s.cfg.DownPaymentDueHours
			if hours <= 0 {
				hours = 24
			}
			due = now.Add(time.Duration(hours) * time.Hour)
		}
		tranche.Status = paymentdomain.TrancheStatusPending
		tranche.DueAt = &due
		tranche.UpdatedAt = now
		if err := s.repo.SaveTranche(ctx, tx, tranche); err != nil {
			return err
		}

		resp = toResponse(ledger)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Service) GetByOrder(ctx context.Context, orderID string) (*paymentdomain.LedgerResponse, error) {
	id, err := parseID(orderID)
	if err != nil {
		return nil, paymentdomain.ErrLedgerNotFound
	}

	ledger, err := s.repo.FindByOrder(ctx, s.db, id, false)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, paymentdomain.ErrLedgerNotFound
	}
	return toResponse(ledger), nil
}

func (s *Service) ExpireDuePayments(ctx context.Context, now time.Time) (int, error) {
	expired := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledgers, err := s.repo.ListOverdueDownPayments(ctx, tx, now)
		if err != nil {
			return err
		}

		for i := range ledgers {
			ledger := &ledgers[i]
			if !ledger.ExpireDownPayment(now) {
				continue
			}
			tranche := ledger.FindTranche(paymentdomain.TrancheDownPayment)
			if err := s.repo.SaveTranche(ctx, tx, tranche); err != nil {
				return err
			}
			expired++
			s.log.Info("down payment expired",
				zap.String("order_id", ledger.OrderID.String()),
				zap.Int64("amount", tranche.Amount),
			)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}

// IsFullyPaid reads completeness inside the caller's transaction so the
// fulfillment guard and the status write share one serialized unit.
func (s *Service) IsFullyPaid(ctx context.Context, tx *gorm.DB, orderID snowflake.ID) (bool, error) {
	ledger, err := s.repo.FindByOrder(ctx, tx, orderID, true)
	if err != nil {
		return false, err
	}
	if ledger == nil {
		return false, paymentdomain.ErrLedgerNotFound
	}
	return ledger.FullyPaid, nil
}

func toResponse(ledger *paymentdomain.Ledger) *paymentdomain.LedgerResponse {
	resp := &paymentdomain.LedgerResponse{
		OrderID:   ledger.OrderID.String(),
		TotalDue:  ledger.TotalDue,
		Scheme:    ledger.Scheme,
		FullyPaid: ledger.FullyPaid,
	}
	for _, tranche := range ledger.Tranches {
		resp.Tranches = append(resp.Tranches, paymentdomain.TrancheResponse{
			ID:         tranche.ID.String(),
			Kind:       tranche.Kind,
			Amount:     tranche.Amount,
			Status:     tranche.Status,
			Method:     tranche.Method,
			GatewayRef: tranche.GatewayRef,
			PaidAt:     tranche.PaidAt,
			DueAt:      tranche.DueAt,
		})
	}
	return resp
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
