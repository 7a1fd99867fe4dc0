package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/cabinetworks/quoteflow/internal/catalog"
	"github.com/cabinetworks/quoteflow/internal/clock"
	"github.com/cabinetworks/quoteflow/internal/config"
	"github.com/cabinetworks/quoteflow/internal/customer"
	"github.com/cabinetworks/quoteflow/internal/migration"
	"github.com/cabinetworks/quoteflow/internal/observability"
	"github.com/cabinetworks/quoteflow/internal/providers"
	"github.com/cabinetworks/quoteflow/internal/quote"
	"github.com/cabinetworks/quoteflow/internal/server"
	"github.com/cabinetworks/quoteflow/internal/settings"
	"github.com/cabinetworks/quoteflow/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		customer.Module,
		catalog.Module,
		settings.Module,
		quote.Module,
		providers.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
