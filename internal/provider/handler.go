package provider

import (
	"github.com/MirrorChyan/dxvk-manager/internal/handler"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/restserver"
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
	"go.uber.org/zap"
)

var HandlerSet = wire.NewSet(
	handler.Provider,
	NewRestServer,
)

func NewRestServer(
	logger *zap.Logger,
	system *handler.SystemHandler,
	requirements *handler.RequirementsHandler,
	channels *handler.ChannelHandler,
	targets *handler.TargetHandler,
) *fiber.App {
	return restserver.New(logger, handler.Error, system, requirements, channels, targets)
}
