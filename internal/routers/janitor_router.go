package routers

import (
	"Drive/cmd"
	"github.com/gofiber/fiber/v2"
)

func SetupJanitorRouter(app *fiber.App, server *cmd.Server) {
	janitorHandler := server.JanitorHandler
	janitor := app.Group("/janitor", server.AuthMiddleware.RequireAuth)
	janitor.Post("/clean", janitorHandler.ForceClean)
	janitor.Get("/status", janitorHandler.Status)
}
