package account

import (
	"github.com/studiocompas/compas/internal/account/repository"
	"github.com/studiocompas/compas/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
