package migration

import (
	auditdomain "github.com/smallbiznis/tailorline/internal/audit/domain"
	authdomain "github.com/smallbiznis/tailorline/internal/auth/domain"
	catalogdomain "github.com/smallbiznis/tailorline/internal/catalog/domain"
	"github.com/smallbiznis/tailorline/internal/config"
	orderdomain "github.com/smallbiznis/tailorline/internal/order/domain"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
	"github.com/smallbiznis/tailorline/internal/seed"
	trackingdomain "github.com/smallbiznis/tailorline/internal/tracking/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql installs rely on gorm's schema sync.
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&catalogdomain.Product{},
				&catalogdomain.ProductSize{},
				&catalogdomain.ProductMaterial{},
				&orderdomain.Order{},
				&orderdomain.OrderItem{},
				&orderdomain.StatusHistory{},
				&paymentdomain.Ledger{},
				&paymentdomain.Tranche{},
				&trackingdomain.Token{},
				&auditdomain.ActivityLog{},
			); err != nil {
				return err
			}
		}

		if err := seed.EnsureDefaultAdmin(conn); err != nil {
			return err
		}
		return seed.EnsureSampleProduct(conn)
	}),
)
