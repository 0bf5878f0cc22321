package routers

import (
	"Drive/cmd"
	"github.com/gofiber/fiber/v2"
)

func SetupDriveRouter(app *fiber.App, server *cmd.Server) {
	driveHandler := server.DriveHandler
	drive := app.Group("/drive", server.AuthMiddleware.RequireAuth)
	drive.Post("/folders", driveHandler.CreateFolder)
	drive.Post("/files", driveHandler.SaveFilesToDb)
	drive.Post("/uploads", driveHandler.NewUploadTarget)
	drive.Patch("/move", driveHandler.MoveFilesOrFolders)
	drive.Patch("/rename", driveHandler.RenameFileOrFolder)
	drive.Delete("/", driveHandler.DeleteFilesOrFolders)
	drive.Get("/:parent", driveHandler.GetDrive)
}
