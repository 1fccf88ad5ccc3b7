package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tailorline/internal/audit"
	"github.com/smallbiznis/tailorline/internal/auth"
	"github.com/smallbiznis/tailorline/internal/catalog"
	"github.com/smallbiznis/tailorline/internal/clock"
	"github.com/smallbiznis/tailorline/internal/config"
	"github.com/smallbiznis/tailorline/internal/logger"
	"github.com/smallbiznis/tailorline/internal/migration"
	"github.com/smallbiznis/tailorline/internal/observability"
	"github.com/smallbiznis/tailorline/internal/order"
	"github.com/smallbiznis/tailorline/internal/payment"
	"github.com/smallbiznis/tailorline/internal/reporting"
	"github.com/smallbiznis/tailorline/internal/scheduler"
	"github.com/smallbiznis/tailorline/internal/server"
	"github.com/smallbiznis/tailorline/internal/tracking"
	"github.com/smallbiznis/tailorline/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// domains
		auth.Module,
		catalog.Module,
		payment.Module,
		order.Module,
		tracking.Module,
		reporting.Module,
		audit.Module,
		scheduler.Module,

		server.Module,
	)

	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
