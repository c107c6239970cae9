package handler

import (
	"github.com/MirrorChyan/dxvk-manager/internal/handler/response"
	"github.com/MirrorChyan/dxvk-manager/internal/logic"
	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/validator"
	"github.com/gofiber/fiber/v2"
)

type TargetHandler struct {
	manager *logic.Manager
}

func NewTargetHandler(manager *logic.Manager) *TargetHandler {
	return &TargetHandler{
		manager: manager,
	}
}

func (h *TargetHandler) Register(r fiber.Router) {
	r.Post("/library/scan", h.Scan)

	r.Get("/targets/:id", h.Get)
	r.Put("/targets/:id", h.Update)
	r.Get("/targets/:id/state", h.State)
	r.Get("/targets/:id/backup", h.Backup)
	r.Get("/targets/:id/verify", h.Verify)
	r.Post("/targets/:id/apply", h.Apply)
	r.Post("/targets/:id/restore", h.Restore)
	r.Post("/targets/:id/remove", h.Remove)
}

// outcome sends an operation result; failed operations keep the result as
// data so the per-file lists reach the caller.
func outcome(c *fiber.Ctx, success bool, message string, data any) error {
	if success {
		return c.JSON(response.Success(data))
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(response.BusinessError(message, data))
}

func (h *TargetHandler) Get(c *fiber.Ctx) error {
	target, err := h.manager.Target(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(response.Success(target))
}

func (h *TargetHandler) Update(c *fiber.Ctx) error {
	var req model.UpdateTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.ErrInvalidParams.WithMessage("invalid request body").Wrap(err)
	}

	target, err := h.manager.UpdateTarget(c.Params("id"), model.TargetUpdate{
		Name:       req.Name,
		InstallDir: req.InstallDir,
		Descriptor: req.Descriptor,
		Is64:       req.Is64,
		Is32:       req.Is32,
	})
	if err != nil {
		return err
	}
	return c.JSON(response.Success(target))
}

func (h *TargetHandler) State(c *fiber.Ctx) error {
	return c.JSON(response.Success(h.manager.GetPatchState(c.Params("id"))))
}

func (h *TargetHandler) Backup(c *fiber.Ctx) error {
	exists, err := h.manager.HasBackup(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(response.Success(model.BackupResponseData{Exists: exists}))
}

func (h *TargetHandler) Verify(c *fiber.Ctx) error {
	result, err := h.manager.Verify(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(response.Success(result))
}

func (h *TargetHandler) Apply(c *fiber.Ctx) error {
	var req model.ApplyRequest
	if err := validator.ValidateBody(c, &req); err != nil {
		return err
	}

	result, err := h.manager.Apply(c.UserContext(), c.Params("id"), req.Channel, req.Version)
	if err != nil {
		return err
	}
	return outcome(c, result.Success, result.Message, result)
}

func (h *TargetHandler) Restore(c *fiber.Ctx) error {
	result, err := h.manager.Restore(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return outcome(c, result.Success, result.Message, result)
}

func (h *TargetHandler) Remove(c *fiber.Ctx) error {
	result, err := h.manager.ForceRemove(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return outcome(c, result.Success, result.Message, result)
}

func (h *TargetHandler) Scan(c *fiber.Ctx) error {
	param := model.SyncLibraryParam{
		SteamApps: c.Query("steamapps"),
		Prune:     c.QueryBool("prune"),
	}
	result, err := h.manager.SyncLibrary(c.UserContext(), param)
	if err != nil {
		return err
	}
	return c.JSON(response.Success(result))
}
