package middleware

import (
	"context"
	"errors"
	"strings"

	"recordhub/internal/auth"
	"recordhub/internal/models"
	"recordhub/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const identityLocal = "identity"

// TokenVerifier resolves a bearer token into the caller's identity.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthRequired gates a route on a valid bearer token. Rejected requests get
// 401 and never reach the wrapped handler.
func AuthRequired(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			observability.GateRejections.Inc()
			return models.RespondWithError(c, models.NewUnauthorizedError("Authorization token required"))
		}

		identity, err := tokens.Verify(raw)
		if err != nil {
			observability.GateRejections.Inc()
			Logger.DebugContext(c.UserContext(), "rejected bearer token", "error", err.Error())
			return models.RespondWithError(c, models.NewUnauthorizedError("Invalid or expired token"))
		}

		c.Locals(identityLocal, identity)
		c.Locals("userID", identity.UserID)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, identity.UserID))

		return c.Next()
	}
}

// IdentityFrom returns the identity injected by AuthRequired.
func IdentityFrom(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(identityLocal).(auth.Identity)
	return identity, ok
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", auth.ErrMissingToken
	}
	return token, nil
}
