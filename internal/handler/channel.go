package handler

import (
	"github.com/MirrorChyan/dxvk-manager/internal/handler/response"
	"github.com/MirrorChyan/dxvk-manager/internal/logic"
	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/model/types"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/sortorder"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/validator"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChannelHandler struct {
	logger  *zap.Logger
	manager *logic.Manager
}

func NewChannelHandler(logger *zap.Logger, manager *logic.Manager) *ChannelHandler {
	return &ChannelHandler{
		logger:  logger,
		manager: manager,
	}
}

func (h *ChannelHandler) Register(r fiber.Router) {
	r.Get("/channels/:channel/releases", h.ListReleases)
	r.Get("/channels/:channel/versions", h.ListInstalled)
	r.Get("/channels/:channel/versions/:version", h.IsCached)
	r.Post("/channels/:channel/versions", h.Fetch)
}

func (h *ChannelHandler) ListReleases(c *fiber.Ctx) error {
	var req model.ListReleasesRequest
	if err := c.ParamsParser(&req); err != nil {
		return errs.ErrInvalidParams.Wrap(err)
	}
	if err := c.QueryParser(&req); err != nil {
		return errs.ErrInvalidParams.Wrap(err)
	}
	if err := validator.Struct(&req); err != nil {
		return err
	}

	releases, err := h.manager.ListCatalog(c.UserContext(), req.Channel, sortorder.Parse(req.Order))
	if err != nil {
		return err
	}
	return c.JSON(response.Success(releases))
}

func (h *ChannelHandler) ListInstalled(c *fiber.Ctx) error {
	versions, err := h.manager.InstalledVersions(c.Params("channel"))
	if err != nil {
		return err
	}
	return c.JSON(response.Success(sortorder.Arrange(sortorder.Parse(c.Query("order")), versions)))
}

func (h *ChannelHandler) IsCached(c *fiber.Ctx) error {
	var (
		channel = c.Params("channel")
		version = c.Params("version")
	)
	cached, err := h.manager.IsCached(channel, version)
	if err != nil {
		return err
	}
	return c.JSON(response.Success(model.CachedResponseData{
		Channel: types.Channel(channel),
		Version: version,
		Cached:  cached,
	}))
}

func (h *ChannelHandler) Fetch(c *fiber.Ctx) error {
	var req model.FetchVersionRequest
	if err := validator.ValidateBody(c, &req); err != nil {
		return err
	}

	param := model.FetchParam{
		Channel:     c.Params("channel"),
		Version:     req.Version,
		DownloadURL: req.DownloadURL,
	}
	if err := h.manager.FetchAndCache(c.UserContext(), param); err != nil {
		h.logger.Warn("Fetch request failed",
			zap.String("channel", param.Channel),
			zap.String("version", param.Version),
			zap.Error(err),
		)
		return err
	}

	return c.JSON(response.Success(model.CachedResponseData{
		Channel: types.Channel(param.Channel),
		Version: param.Version,
		Cached:  true,
	}))
}
