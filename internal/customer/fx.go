package customer

import (
	"github.com/cabinetworks/quoteflow/internal/customer/repository"
	"github.com/cabinetworks/quoteflow/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
