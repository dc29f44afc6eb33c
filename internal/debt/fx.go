package debt

import (
	"github.com/studiocompas/compas/internal/debt/repository"
	"github.com/studiocompas/compas/internal/debt/service"
	"go.uber.org/fx"
)

var Module = fx.Module("debt.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
