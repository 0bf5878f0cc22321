package handlers

import (
	"github.com/gofiber/fiber/v2"
	"net/http"
)

// CleanCycle is the part of the janitor exposed over HTTP.
type CleanCycle interface {
	ForceStartCleanCycle() error
	IsCleaning() bool
}

type JanitorHandler struct {
	janitor CleanCycle
}

func NewJanitorHandler(janitor CleanCycle) *JanitorHandler {
	return &JanitorHandler{janitor: janitor}
}

func (h *JanitorHandler) ForceClean(c *fiber.Ctx) error {
	if err := h.janitor.ForceStartCleanCycle(); err != nil {
		return c.Status(http.StatusConflict).JSON(map[string]interface{}{"error": err.Error()})
	}
	return c.Status(http.StatusAccepted).JSON(map[string]interface{}{})
}

func (h *JanitorHandler) Status(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(map[string]interface{}{"cleaning": h.janitor.IsCleaning()})
}
