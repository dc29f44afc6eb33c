package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/studiocompas/compas/internal/clock"
	"github.com/studiocompas/compas/internal/config"
	"github.com/studiocompas/compas/internal/migration"
	"github.com/studiocompas/compas/internal/observability"
	"github.com/studiocompas/compas/internal/server"
	"github.com/studiocompas/compas/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
