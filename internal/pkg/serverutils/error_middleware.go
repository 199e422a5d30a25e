package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts controller errors into the response
// envelope. Unknown errors become a generic 500; the error text is the only
// detail exposed.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			var data interface{}
			if appErr.Details != "" {
				data = fiber.Map{"details": appErr.Details}
			}
			return ctx.Status(appErr.Code).JSON(ErrorResponse(appErr.Code, appErr.Message, data))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message, nil))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(
			ErrorResponse(fiber.StatusInternalServerError, "Internal server error", fiber.Map{"details": err.Error()}),
		)
	}
}
