package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/tailorline/internal/audit/domain"
	authdomain "github.com/smallbiznis/tailorline/internal/auth/domain"
	catalogdomain "github.com/smallbiznis/tailorline/internal/catalog/domain"
	"github.com/smallbiznis/tailorline/internal/clock"
	obsmetrics "github.com/smallbiznis/tailorline/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/tailorline/internal/order/domain"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
	"github.com/smallbiznis/tailorline/internal/pricing"
	"github.com/smallbiznis/tailorline/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        orderdomain.Repository
	CatalogRepo catalogdomain.Repository
	PaymentSvc  paymentdomain.Service
	Payments    paymentdomain.CompletenessReader
	AuditSvc    auditdomain.Service
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        orderdomain.Repository
	catalogRepo catalogdomain.Repository
	paymentSvc  paymentdomain.Service
	payments    paymentdomain.CompletenessReader
	auditSvc    auditdomain.Service
	metrics     *obsmetrics.Metrics
}

func New(p Params) orderdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("order.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
		paymentSvc:  p.PaymentSvc,
		payments:    p.Payments,
		auditSvc:    p.AuditSvc,
		metrics:     p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, actor authdomain.ActingUser, req orderdomain.CreateRequest) (*orderdomain.Response, error) {
	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		return nil, orderdomain.ErrInvalidCustomer
	}
	if len(req.Items) == 0 {
		return nil, orderdomain.ErrInvalidItems
	}
	if req.Scheme == paymentdomain.SchemeDownPayment && req.DownPaymentDueAt == nil {
		return nil, orderdomain.ErrMissingDueDate
	}

	now := s.clock.Now()
	order := &orderdomain.Order{
		ID:           s.genID.Generate(),
		CustomerName: customerName,
		Notes:        strings.TrimSpace(req.Notes),
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if actor.Role == authdomain.RoleCustomer {
		customerID := actor.ID
		order.CustomerID = &customerID
	}

	// Admin-created orders skip cashier confirmation.
	if actor.Role == authdomain.RoleAdmin {
		order.Status = orderdomain.StatusAccepted
	} else {
		order.Status = orderdomain.StatusPendingConfirmation
	}

	var breakdowns []pricing.LineItemPriceBreakdown
	for _, item := range req.Items {
		priced, err := s.priceItem(ctx, item.ProductID, item.Material, item.Sizes, item.CustomDesign, item.CustomDesignFee)
		if err != nil {
			return nil, err
		}

		snapshot, err := json.Marshal(priced.breakdown)
		if err != nil {
			return nil, err
		}

		order.Items = append(order.Items, orderdomain.OrderItem{
			ID:              s.genID.Generate(),
			OrderID:         order.ID,
			ProductID:       priced.product.ID,
			ProductName:     priced.product.Name,
			MaterialName:    priced.material.Name,
			CustomDesign:    item.CustomDesign,
			Quantity:        priced.breakdown.TotalQuantity,
			TotalAmount:     priced.breakdown.Total,
			Breakdown:       datatypes.JSON(snapshot),
			SnapshotVersion: 1,
			CreatedAt:       now,
		})
		breakdowns = append(breakdowns, *priced.breakdown)
	}

	totals := pricing.PriceOrder(breakdowns)
	order.Subtotal = totals.Subtotal
	order.DiscountAmount = totals.DiscountAmount
	order.CustomDesignFeeTotal = totals.CustomDesignFeeTotal
	order.TotalAmount = totals.Total

	order.History = []orderdomain.StatusHistory{{
		ID:        s.genID.Generate(),
		OrderID:   order.ID,
		Status:    order.Status,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		ActorRole: actor.Role,
		Note:      "order placed",
		CreatedAt: now,
	}}

	scheme := req.Scheme
	if scheme == "" {
		scheme = paymentdomain.SchemeFull
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, order); err != nil {
			return err
		}

		_, err := s.paymentSvc.IssueLedger(ctx, tx, paymentdomain.IssueRequest{
			OrderID:  order.ID,
			TotalDue: order.TotalAmount,
			Scheme:   scheme,
			DueAt:    req.DownPaymentDueAt,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrderCreated(string(scheme))
	}
	actorID := actor.ID
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		ActorID:    &actorID,
		ActorName:  actor.Name,
		Action:     "order.create",
		TargetType: "order",
		TargetID:   order.ID.String(),
		Metadata: map[string]any{
			"total_amount": order.TotalAmount,
			"scheme":       string(scheme),
			"items":        len(order.Items),
		},
	})
	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.Int64("total_amount", order.TotalAmount),
		zap.String("status", string(order.Status)),
	)

	return toResponse(order), nil
}

func (s *Service) Get(ctx context.Context, id string) (*orderdomain.Response, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, orderdomain.ErrInvalidID
	}

	order, err := s.repo.FindByID(ctx, s.db, orderID, false)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, orderdomain.ErrNotFound
	}
	return toResponse(order), nil
}

func (s *Service) List(ctx context.Context, req orderdomain.ListRequest) ([]orderdomain.Response, pagination.PageInfo, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, pagination.PageInfo{}, orderdomain.ErrInvalidStatus
	}

	limit, offset := pagination.Normalize(req.Limit, req.Offset)
	// one extra row detects the next page
	req.Limit = limit + 1
	req.Offset = offset

	orders, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}
	orders, page := pagination.BuildPageInfo(orders, limit, offset)

	resp := make([]orderdomain.Response, 0, len(orders))
	for i := range orders {
		resp = append(resp, *toResponse(&orders[i]))
	}
	return resp, page, nil
}

// Transition validates the requested move against the transition table and,
// for the payment-gated step, re-reads payment completeness inside the same
// transaction that writes the status. A denied transition changes nothing.
func (s *Service) Transition(ctx context.Context, actor authdomain.ActingUser, req orderdomain.TransitionRequest) (*orderdomain.Response, error) {
	orderID, err := parseID(req.OrderID)
	if err != nil {
		return nil, orderdomain.ErrInvalidID
	}
	if !req.ToStatus.Valid() {
		return nil, orderdomain.ErrTransitionDenied
	}

	var resp *orderdomain.Response
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByID(ctx, tx, orderID, true)
		if err != nil {
			return err
		}
		if order == nil {
			return orderdomain.ErrNotFound
		}

		requiresFullPayment, err := orderdomain.CanTransition(order.Status, req.ToStatus, actor.Role)
		if err != nil {
			return err
		}
		if requiresFullPayment {
			fullyPaid, err := s.payments.IsFullyPaid(ctx, tx, order.ID)
			if err != nil {
				return err
			}
			if !fullyPaid {
				return orderdomain.ErrPaymentIncomplete
			}
		}

		now := s.clock.Now()
		order.Status = req.ToStatus
		order.UpdatedAt = now
		if err := s.repo.UpdateStatus(ctx, tx, order); err != nil {
			return err
		}

		entry := &orderdomain.StatusHistory{
			ID:        s.genID.Generate(),
			OrderID:   order.ID,
			Status:    req.ToStatus,
			ActorID:   actor.ID,
			ActorName: actor.Name,
			ActorRole: actor.Role,
			Note:      strings.TrimSpace(req.Note),
			CreatedAt: now,
		}
		if err := s.repo.AppendHistory(ctx, tx, entry); err != nil {
			return err
		}
		order.History = append(order.History, *entry)

		resp = toResponse(order)
		return nil
	})
	if err != nil {
		if s.metrics != nil && (err == orderdomain.ErrTransitionDenied || err == orderdomain.ErrPaymentIncomplete) {
			s.metrics.TransitionDenied(string(req.ToStatus))
		}
		return nil, err
	}

	actorID := actor.ID
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		ActorID:    &actorID,
		ActorName:  actor.Name,
		Action:     "order.transition",
		TargetType: "order",
		TargetID:   req.OrderID,
		Metadata: map[string]any{
			"to_status": string(req.ToStatus),
			"role":      string(actor.Role),
		},
	})

	return resp, nil
}

func (s *Service) Quote(ctx context.Context, req orderdomain.QuoteRequest) (*pricing.LineItemPriceBreakdown, error) {
	priced, err := s.priceItem(ctx, req.ProductID, req.Material, req.Sizes, req.CustomDesign, req.CustomDesignFee)
	if err != nil {
		return nil, err
	}
	return priced.breakdown, nil
}

type pricedItem struct {
	product   *catalogdomain.Product
	material  pricing.MaterialChoice
	breakdown *pricing.LineItemPriceBreakdown
}

func (s *Service) priceItem(ctx context.Context, productID, materialName string, sizes []orderdomain.SizeQtyRequest, customDesign bool, feeOverride *int64) (*pricedItem, error) {
	id, err := parseID(productID)
	if err != nil {
		return nil, orderdomain.ErrUnknownProduct
	}

	product, err := s.catalogRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, orderdomain.ErrUnknownProduct
	}
	if !product.Active {
		return nil, orderdomain.ErrInactiveProduct
	}

	if len(sizes) == 0 {
		return nil, orderdomain.ErrInvalidItems
	}

	entries := make([]pricing.SizeEntry, 0, len(sizes))
	seen := make(map[string]struct{}, len(sizes))
	for _, size := range sizes {
		label := strings.ToUpper(strings.TrimSpace(size.Label))
		if _, dup := seen[label]; dup {
			return nil, orderdomain.ErrInvalidItems
		}
		seen[label] = struct{}{}

		surcharge, ok := sizeSurcharge(product, label)
		if !ok {
			return nil, orderdomain.ErrUnknownSize
		}
		entries = append(entries, pricing.SizeEntry{
			Size:            label,
			Quantity:        size.Quantity,
			AdditionalPrice: surcharge,
		})
	}

	material := pricing.MaterialChoice{}
	if name := strings.TrimSpace(materialName); name != "" {
		found := false
		for _, m := range product.Materials {
			if strings.EqualFold(m.Name, name) {
				material = pricing.MaterialChoice{Name: m.Name, AdditionalPrice: m.AdditionalPrice}
				found = true
				break
			}
		}
		if !found {
			return nil, orderdomain.ErrUnknownMaterial
		}
	}

	var design *pricing.CustomDesignRequest
	if customDesign {
		design = &pricing.CustomDesignRequest{FeeOverride: feeOverride}
	}

	breakdown, err := pricing.PriceLineItem(entries, product.Tier(), material, design)
	if err != nil {
		return nil, err
	}

	return &pricedItem{product: product, material: material, breakdown: breakdown}, nil
}

func sizeSurcharge(product *catalogdomain.Product, label string) (int64, bool) {
	for _, size := range product.Sizes {
		if strings.EqualFold(size.Label, label) {
			return size.AdditionalPrice, true
		}
	}
	return 0, false
}

func toResponse(order *orderdomain.Order) *orderdomain.Response {
	resp := &orderdomain.Response{
		ID:                   order.ID.String(),
		CustomerName:         order.CustomerName,
		Status:               order.Status,
		Notes:                order.Notes,
		Subtotal:             order.Subtotal,
		DiscountAmount:       order.DiscountAmount,
		CustomDesignFeeTotal: order.CustomDesignFeeTotal,
		TotalAmount:          order.TotalAmount,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}

	for _, item := range order.Items {
		var breakdown pricing.LineItemPriceBreakdown
		_ = json.Unmarshal(item.Breakdown, &breakdown)
		resp.Items = append(resp.Items, orderdomain.ItemResponse{
			ID:           item.ID.String(),
			ProductID:    item.ProductID.String(),
			ProductName:  item.ProductName,
			MaterialName: item.MaterialName,
			CustomDesign: item.CustomDesign,
			Quantity:     item.Quantity,
			TotalAmount:  item.TotalAmount,
			Breakdown:    breakdown,
		})
	}

	for _, entry := range order.History {
		resp.History = append(resp.History, orderdomain.StatusHistoryResponse{
			Status:    entry.Status,
			ActorName: entry.ActorName,
			ActorRole: entry.ActorRole,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		})
	}

	return resp
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
