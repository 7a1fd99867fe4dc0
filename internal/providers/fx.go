package providers

import (
	"github.com/cabinetworks/quoteflow/internal/providers/email"
	"github.com/cabinetworks/quoteflow/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	pdf.Module,
)
