package cmd

import (
	"Drive/internal/config"
	"Drive/internal/handlers"
	"Drive/internal/middleware"
	"Drive/internal/services"
	"Drive/internal/storage"
)

type Server struct {
	Configuration  *config.Configuration
	DriveService   services.DriveService
	DriveHandler   *handlers.DriveHandler
	JanitorHandler *handlers.JanitorHandler
	AuthMiddleware *middleware.AuthMiddleware
	LogService     services.LogService
	JanitorService *services.Janitor
	BlobStore      *storage.MinIOClient
}

func NewServer(
	configuration *config.Configuration,
	driveService services.DriveService,
	driveHandler *handlers.DriveHandler,
	janitorHandler *handlers.JanitorHandler,
	authMiddleware *middleware.AuthMiddleware,
	logService services.LogService,
	janitorService *services.Janitor,
	blobStore *storage.MinIOClient,
) *Server {
	return &Server{
		Configuration:  configuration,
		DriveService:   driveService,
		DriveHandler:   driveHandler,
		JanitorHandler: janitorHandler,
		AuthMiddleware: authMiddleware,
		LogService:     logService,
		JanitorService: janitorService,
		BlobStore:      blobStore,
	}
}
