package catalog

import (
	"github.com/studiocompas/compas/internal/catalog/repository"
	"github.com/studiocompas/compas/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
