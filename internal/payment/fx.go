package payment

import (
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
	"github.com/smallbiznis/tailorline/internal/payment/repository"
	"github.com/smallbiznis/tailorline/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(func(s *service.Service) paymentdomain.Service { return s }),
	fx.Provide(func(s *service.Service) paymentdomain.CompletenessReader { return s }),
)
