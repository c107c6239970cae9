package wire

import (
	"github.com/MirrorChyan/dxvk-manager/internal/cache"
	"github.com/MirrorChyan/dxvk-manager/internal/logic"
	"github.com/gofiber/fiber/v2"
)

type Components struct {
	Manager    *logic.Manager
	Caches     *cache.MultiCacheGroup
	RestServer *fiber.App
}
