package routers

import (
	"Drive/cmd"
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, server *cmd.Server) {
	SetupDriveRouter(app, server)
	SetupJanitorRouter(app, server)
}
