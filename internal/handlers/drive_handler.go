package handlers

import (
	"Drive/internal/dto"
	"Drive/internal/mapper"
	"Drive/internal/middleware"
	"Drive/internal/services"
	"errors"
	"github.com/gofiber/fiber/v2"
	"net/http"
)

type DriveHandler struct {
	service services.DriveService
}

func NewDriveHandler(service services.DriveService) *DriveHandler {
	return &DriveHandler{service: service}
}

type createFolderRequest struct {
	Parent string `json:"parent"`
	Name   string `json:"name"`
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

type moveRequest struct {
	IDs    []string `json:"ids"`
	Parent string   `json:"parent"`
}

type renameRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type saveFilesRequest struct {
	Files []dto.NewFileDTO `json:"files"`
}

type uploadTargetRequest struct {
	Name string `json:"name"`
}

func (h *DriveHandler) GetDrive(c *fiber.Ctx) error {
	listing, err := h.service.GetDrive(c.Params("parent"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(http.StatusOK).JSON(listing)
}

func (h *DriveHandler) CreateFolder(c *fiber.Ctx) error {
	var req createFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(map[string]interface{}{"error": "invalid input"})
	}
	folder, err := h.service.CreateFolder(req.Parent, req.Name, middleware.Actor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.FolderToEntryDTO(folder))
}

func (h *DriveHandler) DeleteFilesOrFolders(c *fiber.Ctx) error {
	var req idsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(map[string]interface{}{"error": "invalid input"})
	}
	if err := h.service.DeleteFilesOrFolders(req.IDs); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *DriveHandler) MoveFilesOrFolders(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(map[string]interface{}{"error": "invalid input"})
	}
	if err := h.service.MoveFilesOrFolders(req.IDs, req.Parent); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *DriveHandler) RenameFileOrFolder(c *fiber.Ctx) error {
	var req renameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(map[string]interface{}{"error": "invalid input"})
	}
	if err := h.service.RenameFileOrFolder(req.ID, req.Name); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *DriveHandler) SaveFilesToDb(c *fiber.Ctx) error {
	var req saveFilesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(map[string]interface{}{"error": "invalid input"})
	}
	if len(req.Files) == 0 {
		return c.Status(http.StatusBadRequest).JSON(map[string]interface{}{"error": "no files given"})
	}
	files, err := h.service.SaveFilesToDb(req.Files, middleware.Actor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.FilesToEntryDTOs(files))
}

func (h *DriveHandler) NewUploadTarget(c *fiber.Ctx) error {
	var req uploadTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(map[string]interface{}{"error": "invalid input"})
	}
	target, err := h.service.NewUploadTarget(c.UserContext(), middleware.Actor(c), req.Name)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(http.StatusCreated).JSON(target)
}

func errorResponse(c *fiber.Ctx, err error) error {
	var duplicate *services.DuplicateNameError
	switch {
	case errors.As(err, &duplicate):
		return c.Status(http.StatusConflict).JSON(map[string]interface{}{
			"error":       err.Error(),
			"existing_id": duplicate.ExistingID,
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(map[string]interface{}{"error": err.Error()})
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrParentNotFound),
		errors.Is(err, services.ErrInvalidMove):
		return c.Status(http.StatusBadRequest).JSON(map[string]interface{}{"error": err.Error()})
	default:
		return c.Status(http.StatusInternalServerError).JSON(map[string]interface{}{"error": err.Error()})
	}
}
