package settings

import (
	"github.com/cabinetworks/quoteflow/internal/settings/repository"
	"github.com/cabinetworks/quoteflow/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
