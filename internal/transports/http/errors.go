package http_transport

import (
	"errors"
	"log/slog"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/domain/dtos"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rotisserie/eris"
)

// ErrorHandler renders every error returned by a handler as dtos.ErrorResponse.
// Parse failures are the caller's fault and map to 422.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		body := dtos.ErrorResponse{Error: "internal server error"}

		var (
			parseErr *app.ParseError
			fiberErr *fiber.Error
			validErr validator.ValidationErrors
		)
		switch {
		case errors.As(err, &parseErr):
			status = fiber.StatusUnprocessableEntity
			body.Error = parseErr.Reason
		case errors.As(err, &validErr):
			status = fiber.StatusBadRequest
			body.Error = "validation failed"
			body.Details = make(map[string]string, len(validErr))
			for _, fe := range validErr {
				body.Details[fe.Field()] = fe.Tag()
			}
		case errors.Is(err, app.ErrImportRunNotFound):
			status = fiber.StatusNotFound
			body.Error = app.ErrImportRunNotFound.Error()
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			body.Error = fiberErr.Message
		default:
			log.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", eris.ToString(err, true))
		}

		return c.Status(status).JSON(body)
	}
}
