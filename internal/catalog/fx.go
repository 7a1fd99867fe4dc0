package catalog

import (
	"github.com/cabinetworks/quoteflow/internal/catalog/repository"
	"github.com/cabinetworks/quoteflow/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
