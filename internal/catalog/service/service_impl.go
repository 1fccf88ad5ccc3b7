package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/tailorline/internal/catalog/domain"
	"github.com/smallbiznis/tailorline/internal/clock"
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
	Repo  catalogdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  catalogdomain.Repository
}

func New(p Params) catalogdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req catalogdomain.CreateRequest) (*catalogdomain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, catalogdomain.ErrInvalidName
	}
	if req.UnitPrice <= 0 {
		return nil, catalogdomain.ErrInvalidPrice
	}
	if req.DozenUnitPrice != nil && *req.DozenUnitPrice <= 0 {
		return nil, catalogdomain.ErrInvalidPrice
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return nil, catalogdomain.ErrInvalidDiscount
	}
	if req.CustomDesignFee < 0 {
		return nil, catalogdomain.ErrInvalidDesignFee
	}
	if len(req.Sizes) == 0 {
		return nil, catalogdomain.ErrInvalidSize
	}

	seen := make(map[string]struct{}, len(req.Sizes))
	for _, size := range req.Sizes {
		label := strings.ToUpper(strings.TrimSpace(size.Label))
		if label == "" || size.AdditionalPrice < 0 {
			return nil, catalogdomain.ErrInvalidSize
		}
		if _, dup := seen[label]; dup {
			return nil, catalogdomain.ErrDuplicateSize
		}
		seen[label] = struct{}{}
	}
	for _, material := range req.Materials {
		if strings.TrimSpace(material.Name) == "" || material.AdditionalPrice < 0 {
			return nil, catalogdomain.ErrInvalidMaterial
		}
	}

	threshold := req.DozenThreshold
	if threshold <= 0 {
		threshold = 12
	}

	now := s.clock.Now()
	product := &catalogdomain.Product{
		ID:              s.genID.Generate(),
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		UnitPrice:       req.UnitPrice,
		DozenUnitPrice:  req.DozenUnitPrice,
		DozenThreshold:  threshold,
		DiscountPercent: req.DiscountPercent,
		CustomDesignFee: req.CustomDesignFee,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Metadata != nil {
		product.Metadata = datatypes.JSONMap(req.Metadata)
	}

	for _, size := range req.Sizes {
		product.Sizes = append(product.Sizes, catalogdomain.ProductSize{
			ID:              s.genID.Generate(),
			ProductID:       product.ID,
			Label:           strings.ToUpper(strings.TrimSpace(size.Label)),
			AdditionalPrice: size.AdditionalPrice,
		})
	}
	for _, material := range req.Materials {
		product.Materials = append(product.Materials, catalogdomain.ProductMaterial{
			ID:              s.genID.Generate(),
			ProductID:       product.ID,
			Name:            strings.TrimSpace(material.Name),
			AdditionalPrice: material.AdditionalPrice,
		})
	}

	if err := s.repo.Insert(ctx, s.db, product); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)

	return s.toResponse(product), nil
}

func (s *Service) List(ctx context.Context, req catalogdomain.ListRequest) ([]catalogdomain.Response, error) {
	if req.Limit <= 0 || req.Limit > 250 {
		req.Limit = 50
	}

	products, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	resp := make([]catalogdomain.Response, 0, len(products))
	for i := range products {
		resp = append(resp, *s.toResponse(&products[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*catalogdomain.Response, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, catalogdomain.ErrInvalidID
	}

	product, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, catalogdomain.ErrNotFound
	}

	return s.toResponse(product), nil
}

func (s *Service) Update(ctx context.Context, id string, req catalogdomain.UpdateRequest) (*catalogdomain.Response, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, catalogdomain.ErrInvalidID
	}

	product, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, catalogdomain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, catalogdomain.ErrInvalidName
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.UnitPrice != nil {
		if *req.UnitPrice <= 0 {
			return nil, catalogdomain.ErrInvalidPrice
		}
		product.UnitPrice = *req.UnitPrice
	}
	if req.DozenUnitPrice != nil {
		if *req.DozenUnitPrice <= 0 {
			return nil, catalogdomain.ErrInvalidPrice
		}
		product.DozenUnitPrice = req.DozenUnitPrice
	}
	if req.DiscountPercent != nil {
		if *req.DiscountPercent < 0 || *req.DiscountPercent > 100 {
			return nil, catalogdomain.ErrInvalidDiscount
		}
		product.DiscountPercent = *req.DiscountPercent
	}
	if req.CustomDesignFee != nil {
		if *req.CustomDesignFee < 0 {
			return nil, catalogdomain.ErrInvalidDesignFee
		}
		product.CustomDesignFee = *req.CustomDesignFee
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	product.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, product); err != nil {
		return nil, err
	}

	return s.toResponse(product), nil
}

func (s *Service) toResponse(p *catalogdomain.Product) *catalogdomain.Response {
	resp := &catalogdomain.Response{
		ID:              p.ID.String(),
		Name:            p.Name,
		Description:     p.Description,
		UnitPrice:       p.UnitPrice,
		DozenUnitPrice:  p.DozenUnitPrice,
		DozenThreshold:  p.DozenThreshold,
		DiscountPercent: p.DiscountPercent,
		CustomDesignFee: p.CustomDesignFee,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	for _, size := range p.Sizes {
		resp.Sizes = append(resp.Sizes, catalogdomain.SizeResponse{
			ID:              size.ID.String(),
			Label:           size.Label,
			AdditionalPrice: size.AdditionalPrice,
		})
	}
	for _, material := range p.Materials {
		resp.Materials = append(resp.Materials, catalogdomain.MaterialResponse{
			ID:              material.ID.String(),
			Name:            material.Name,
			AdditionalPrice: material.AdditionalPrice,
		})
	}
	return resp
}
