package restserver

import (
	"github.com/bytedance/sonic"
	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const BodyLimit = 1 * 1024 * 1024

type Router interface {
	Register(r fiber.Router)
}

// New builds the fiber app with sonic as JSON codec, request logging and the
// given error handler.
func New(logger *zap.Logger, errorHandler fiber.ErrorHandler, routers ...Router) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "dxvk-manager",
		BodyLimit:             BodyLimit,
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          errorHandler,
	})

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger,
	}))

	r := app.Group("/")
	for _, router := range routers {
		router.Register(r)
	}
	return app
}
