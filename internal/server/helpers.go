package server

import (
	"errors"

	"recordhub/internal/middleware"
	"recordhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers return nil when they see it.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter as a positive uint. On failure it
// writes a 400 JSON response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the JSON body into dst, writing a 400 on failure.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// callerID returns the authenticated user id. Only valid behind the gate.
func callerID(c *fiber.Ctx) (uint, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		_ = models.RespondWithError(c, models.NewUnauthorizedError("Authorization required"))
		return 0, errResponseWritten
	}
	return identity.UserID, nil
}
