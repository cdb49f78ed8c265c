package handlers

import (
	"log"

	"devhub/internal/apperror"

	"github.com/gofiber/fiber/v3"
)

// respondError maps an application error to its HTTP response. Validation
// failures carry the structured field list; unexpected errors are logged and
// collapsed to a generic payload so internals never leak.
func respondError(c fiber.Ctx, err error) error {
	appErr := apperror.From(err)

	switch appErr.Type {
	case apperror.Validation:
		return c.Status(appErr.StatusCode()).JSON(fiber.Map{
			"errors": appErr.Fields,
		})
	case apperror.Internal, apperror.Unknown:
		log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), appErr)
		return c.Status(appErr.StatusCode()).JSON(fiber.Map{
			"msg": "Server Error",
		})
	default:
		return c.Status(appErr.StatusCode()).JSON(fiber.Map{
			"msg": appErr.Message,
		})
	}
}
