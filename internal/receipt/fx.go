package receipt

import (
	"github.com/studiocompas/compas/internal/receipt/repository"
	"github.com/studiocompas/compas/internal/receipt/service"
	"go.uber.org/fx"
)

var Module = fx.Module("receipt.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
