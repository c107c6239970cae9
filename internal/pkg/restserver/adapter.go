package restserver

import (
	"context"
	"net"
	"strconv"

	"github.com/MirrorChyan/dxvk-manager/internal/application"
	"github.com/MirrorChyan/dxvk-manager/internal/config"
	"github.com/gofiber/fiber/v2"
)

func NewAdapter(conf *config.Config, restServer *fiber.App) application.Adapter {
	return &Adapter{
		addr:       net.JoinHostPort(conf.Server.Host, strconv.Itoa(conf.Server.Port)),
		restServer: restServer,
	}
}

type Adapter struct {
	addr       string
	restServer *fiber.App
}

func (a Adapter) Start(ctx context.Context) error {

	return a.restServer.Listen(a.addr)
}

func (a Adapter) Stop(ctx context.Context) error {

	return a.restServer.ShutdownWithContext(ctx)
}
