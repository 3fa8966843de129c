package handler

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campushub/club-service/internal/auth/domain"
	"github.com/campushub/club-service/internal/auth/service"
	autherror "github.com/campushub/club-service/internal/errors"
	"github.com/campushub/club-service/internal/security"
)

const principalKey = "principal"

// RateLimit gates a route on the limiter. Blocked clients get a 429 with a
// Retry-After header; admitted requests are counted as attempts regardless
// of whether they later succeed.
func RateLimit(limiter *security.RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := c.IP()
		endpoint := c.Path()

		if limiter.IsRateLimited(clientID, endpoint) {
			if retryAfter, ok := limiter.GetRetryAfter(clientID, endpoint); ok {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			}

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": autherror.ErrTooManyRequests.Error(),
			})
		}

		limiter.RecordRequest(clientID, endpoint)

		return c.Next()
	}
}

// RequireAuth verifies the bearer token and stores the principal in the
// request locals. Missing, malformed, expired and tampered tokens all get
// the same response.
func RequireAuth(tokens service.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)

		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		principal, err := tokens.ValidateAccessToken(strings.TrimPrefix(header, prefix))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		c.Locals(principalKey, principal)

		return c.Next()
	}
}

// RequireUserType allows only principals of the given kind past. Must be
// mounted after RequireAuth.
func RequireUserType(want domain.UserType, seclog *security.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFrom(c)
		if principal == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		if principal.UserType != want {
			seclog.LogAuthorizationFailure(principal.Subject, c.IP(), c.Path())

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}

		return c.Next()
	}
}

// PrincipalFrom returns the verified principal set by RequireAuth, or nil.
func PrincipalFrom(c *fiber.Ctx) *domain.Principal {
	principal, _ := c.Locals(principalKey).(*domain.Principal)

	return principal
}
