package service

import (
	"context"

	reportingdomain "github.com/smallbiznis/tailorline/internal/reporting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(p Params) reportingdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("reporting.service"),
	}
}

func (s *Service) SalesSummary(ctx context.Context, req reportingdomain.SummaryRequest) (*reportingdomain.SalesSummary, error) {
	if !req.To.After(req.From) {
		return nil, reportingdomain.ErrInvalidTimeRange
	}

	var summary reportingdomain.SalesSummary
	err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS orders,
			COALESCE(SUM(subtotal), 0) AS subtotal,
			COALESCE(SUM(discount_amount), 0) AS discount_amount,
			COALESCE(SUM(custom_design_fee_total), 0) AS custom_design_fee_total,
			COALESCE(SUM(total_amount), 0) AS total_amount
		 FROM orders
		 WHERE created_at >= ? AND created_at < ? AND status != ?`,
		req.From,
		req.To,
		"REJECTED",
	).Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *Service) StatusCounts(ctx context.Context, req reportingdomain.SummaryRequest) ([]reportingdomain.StatusCount, error) {
	if !req.To.After(req.From) {
		return nil, reportingdomain.ErrInvalidTimeRange
	}

	var counts []reportingdomain.StatusCount
	err := s.db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS count
		 FROM orders
		 WHERE created_at >= ? AND created_at < ?
		 GROUP BY status`,
		req.From,
		req.To,
	).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
