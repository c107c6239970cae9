package handler

import (
	"errors"

	"github.com/MirrorChyan/dxvk-manager/internal/handler/response"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Error is the fiber error handler. Business errors keep their HTTP status
// and message; anything else is logged and hidden behind a generic 500.
func Error(c *fiber.Ctx, err error) error {

	var (
		fe *fiber.Error
		be *errs.Error
	)

	switch {

	case errors.As(err, &be):

		if be.HTTPCode() >= fiber.StatusInternalServerError {
			zap.L().Error("Request failed",
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		resp := response.BusinessError(be.Message(), be.Details()).With(be.BizCode())
		return c.Status(be.HTTPCode()).JSON(resp)

	case errors.As(err, &fe):

		return c.Status(fe.Code).JSON(response.BusinessError(fe.Message, nil))

	default:

		zap.L().Error("Unexpected error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		resp := response.UnexpectedError()
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}
