package student

import (
	"github.com/studiocompas/compas/internal/student/repository"
	"github.com/studiocompas/compas/internal/student/service"
	"go.uber.org/fx"
)

var Module = fx.Module("student.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
