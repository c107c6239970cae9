package handler

import (
	"github.com/MirrorChyan/dxvk-manager/internal/handler/response"
	"github.com/MirrorChyan/dxvk-manager/internal/logic"
	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/gofiber/fiber/v2"
)

type RequirementsHandler struct {
	manager *logic.Manager
}

func NewRequirementsHandler(manager *logic.Manager) *RequirementsHandler {
	return &RequirementsHandler{
		manager: manager,
	}
}

func (h *RequirementsHandler) Register(r fiber.Router) {
	r.Get("/requirements", h.Resolve)
}

func (h *RequirementsHandler) Resolve(c *fiber.Ctx) error {
	var req model.ResolveRequirementsRequest
	if err := c.QueryParser(&req); err != nil {
		return errs.ErrInvalidParams.Wrap(err)
	}

	result := h.manager.ResolveRequirements(req.Descriptor, model.Bitness{
		Is64: req.X64,
		Is32: req.X32,
	})

	data := model.RequirementsResponseData{
		Files:       result.Files,
		Description: result.Description,
		Arch:        result.Arch,
	}
	if result.Incompatible {
		data.Warning = result.Description
	}
	return c.JSON(response.Success(data))
}
