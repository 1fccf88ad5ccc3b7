package service

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/tailorline/internal/clock"
	orderdomain "github.com/smallbiznis/tailorline/internal/order/domain"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
	trackingdomain "github.com/smallbiznis/tailorline/internal/tracking/domain"
	"github.com/smallbiznis/tailorline/pkg/db"
	"github.com/smallbiznis/tailorline/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	OrderSvc   orderdomain.Service
	PaymentSvc paymentdomain.Service
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	orderSvc   orderdomain.Service
	paymentSvc paymentdomain.Service
	tokens     repository.Repository[trackingdomain.Token]
}

func New(p Params) trackingdomain.Service {
	return &Service{
		log:        p.Log.Named("tracking.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		orderSvc:   p.OrderSvc,
		paymentSvc: p.PaymentSvc,
		tokens:     repository.ProvideStore[trackingdomain.Token](p.DB),
	}
}

func (s *Service) EnsureForOrder(ctx context.Context, orderID string) (*trackingdomain.Token, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(orderID))
	if err != nil {
		return nil, trackingdomain.ErrInvalidOrder
	}

	existing, err := s.tokens.FindOne(ctx, &trackingdomain.Token{OrderID: id})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// Confirm the order exists before minting a token for it.
	if _, err := s.orderSvc.Get(ctx, orderID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	token := &trackingdomain.Token{
		ID:        s.genID.Generate(),
		OrderID:   id,
		Value:     ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		CreatedAt: now,
	}

	if err := s.tokens.Create(ctx, token); err != nil {
		// A concurrent request may have minted the token first.
		if db.IsDuplicateKeyErr(err) {
			return s.tokens.FindOne(ctx, &trackingdomain.Token{OrderID: id})
		}
		return nil, err
	}
	return token, nil
}

func (s *Service) Resolve(ctx context.Context, tokenValue string) (*trackingdomain.PublicOrder, error) {
	value := strings.TrimSpace(tokenValue)
	if value == "" {
		return nil, trackingdomain.ErrInvalidToken
	}

	token, err := s.tokens.FindOne(ctx, &trackingdomain.Token{Value: value})
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, trackingdomain.ErrInvalidToken
	}

	order, err := s.orderSvc.Get(ctx, token.OrderID.String())
	if err != nil {
		return nil, err
	}

	public := &trackingdomain.PublicOrder{
		CustomerName: order.CustomerName,
		Status:       order.Status,
		TotalAmount:  order.TotalAmount,
		History:      order.History,
	}

	ledger, err := s.paymentSvc.GetByOrder(ctx, token.OrderID.String())
	if err != nil && !errors.Is(err, paymentdomain.ErrLedgerNotFound) {
		return nil, err
	}
	public.Payment = ledger

	return public, nil
}
