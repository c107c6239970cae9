package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type SystemHandler struct {
}

func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

func (h *SystemHandler) Register(r fiber.Router) {
	r.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	r.All("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
