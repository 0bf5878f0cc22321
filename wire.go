//go:build wireinject
// +build wireinject

package main

import (
	"Drive/cmd"
	"Drive/internal/config"
	"Drive/internal/handlers"
	"Drive/internal/middleware"
	"Drive/internal/repository"
	"Drive/internal/services"
	"Drive/internal/storage"
	"github.com/google/wire"
)

func InitializeServer() (*cmd.Server, func(), error) {
	wire.Build(
		cmd.NewServer,
		Provider,
		DatabaseProvider,
		wire.FieldsOf(new(*config.Configuration), "Storage"),
		wire.FieldsOf(new(services.LogService), "Log"),
		repository.NewFolderRepository,
		repository.NewFileRepository,
		storage.NewMinIOClient,
		wire.Bind(new(storage.BlobStore), new(*storage.MinIOClient)),
		services.NewLogService,
		services.NewJanitorService,
		wire.Bind(new(services.SweepScheduler), new(*services.Janitor)),
		wire.Bind(new(handlers.CleanCycle), new(*services.Janitor)),
		services.NewDriveService,
		handlers.NewDriveHandler,
		handlers.NewJanitorHandler,
		middleware.NewAuthMiddleware,
	)
	return nil, nil, nil
}
