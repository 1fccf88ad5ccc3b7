package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/tailorline/internal/audit/domain"
	"github.com/smallbiznis/tailorline/internal/clock"
	"github.com/smallbiznis/tailorline/pkg/db/option"
	"github.com/smallbiznis/tailorline/pkg/db/pagination"
	"github.com/smallbiznis/tailorline/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	store repository.Repository[auditdomain.ActivityLog]
}

func New(p Params) auditdomain.Service {
	return &Service{
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
		store: repository.ProvideStore[auditdomain.ActivityLog](p.DB),
	}
}

func (s *Service) Record(ctx context.Context, entry auditdomain.Entry) error {
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}

	row := &auditdomain.ActivityLog{
		ID:         s.genID.Generate(),
		ActorID:    entry.ActorID,
		ActorName:  entry.ActorName,
		Action:     action,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		CreatedAt:  s.clock.Now(),
	}
	if entry.Metadata != nil {
		row.Metadata = datatypes.JSONMap(entry.Metadata)
	}

	if err := s.store.Create(ctx, row); err != nil {
		// Activity logging is best-effort; the caller's operation already
		// committed and must not fail on a log write.
		s.log.Warn("activity log write failed", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListRequest) ([]auditdomain.ActivityLog, pagination.PageInfo, error) {
	limit, offset := pagination.Normalize(req.Limit, req.Offset)

	filter := &auditdomain.ActivityLog{
		Action:     strings.TrimSpace(req.Action),
		TargetType: strings.TrimSpace(req.TargetType),
		TargetID:   strings.TrimSpace(req.TargetID),
	}

	// one extra row detects the next page
	rows, err := s.store.Find(ctx, filter,
		option.WithOrder("created_at DESC"),
		option.WithLimit(limit+1),
		option.WithOffset(offset),
	)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	out := make([]auditdomain.ActivityLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	out, page := pagination.BuildPageInfo(out, limit, offset)
	return out, page, nil
}
