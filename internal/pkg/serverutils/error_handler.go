package serverutils

import (
	"errors"

	"ai-blog-be/internal/pkg/logger"
	"ai-blog-be/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by downstream handlers into
// the JSON envelope. Unclassified and persistence errors are logged in full
// and answered with a generic 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := classify(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"error":  err.Error(),
				"method": ctx.Method(),
				"path":   ctx.Path(),
			})
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

func classify(err error) (int, string) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		code := appErr.Kind.HTTPStatus()
		if code >= fiber.StatusInternalServerError && appErr.Kind != apperror.KindExternalService {
			return code, "internal server error"
		}
		return code, appErr.Message
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return fiber.StatusBadRequest, DescribeValidationErrors(validationErrs)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= fiber.StatusInternalServerError {
			return fiberErr.Code, "internal server error"
		}
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, "internal server error"
}
