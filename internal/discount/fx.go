package discount

import (
	"github.com/studiocompas/compas/internal/discount/repository"
	"github.com/studiocompas/compas/internal/discount/service"
	"go.uber.org/fx"
)

var Module = fx.Module("discount.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
