package audit

import (
	"github.com/studiocompas/compas/internal/audit/repository"
	"github.com/studiocompas/compas/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
