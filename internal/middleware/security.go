// Package middleware holds the Fiber middleware chain: logging, tracing, metrics, rate limiting and security.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"sideeffect/internal/models"
	"sideeffect/internal/observability"
	"sideeffect/internal/security"

	"github.com/gofiber/fiber/v2"
)

const principalLocal = "principal"

// Authenticator resolves the bearer token into a principal and always continues the chain.
// Missing, non-bearer, expired and invalid tokens leave the request unauthenticated.
func Authenticator(tokens security.TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := security.Authenticate(c.Get(fiber.HeaderAuthorization), tokens)
		observability.AuthResults.WithLabelValues(res.State.String()).Inc()

		switch res.State {
		case security.StateAuthenticated:
			c.Locals(principalLocal, res.Principal)
			c.Locals("userID", res.Principal.UserID)
			c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, res.Principal.UserID))
		case security.StateNoHeader:
		default:
			attrs := []any{"state", res.State.String(), "path", c.Path()}
			if res.Err != nil {
				attrs = append(attrs, "error", res.Err)
			}
			Logger.WarnContext(c.UserContext(), "authentication failed", attrs...)
		}
		return c.Next()
	}
}

// PrincipalFrom returns the authenticated principal, or nil for anonymous requests.
func PrincipalFrom(c *fiber.Ctx) *security.Principal {
	p, _ := c.Locals(principalLocal).(*security.Principal)
	return p
}

// RequirePrincipal is PrincipalFrom for handlers that cannot serve anonymous callers.
func RequirePrincipal(c *fiber.Ctx) (*security.Principal, error) {
	if p := PrincipalFrom(c); p != nil {
		return p, nil
	}
	return nil, models.NewUnauthorizedError("Authentication required")
}

// Authorize enforces the route policy against the principal set by Authenticator.
func Authorize(policy *security.RoutePolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch policy.Decide(c.Method(), c.Path(), PrincipalFrom(c)) {
		case security.DenyUnauthenticated:
			return models.NewUnauthorizedError("Authentication required")
		case security.DenyForbidden:
			return models.NewForbiddenError("Insufficient role")
		}
		return c.Next()
	}
}

// SecurityExceptionHandler turns security errors and panics raised further down the
// chain into the error envelope. Other errors are returned untouched.
func SecurityExceptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				Logger.ErrorContext(c.UserContext(), "panic recovered",
					"panic", fmt.Sprint(r), "stack", string(debug.Stack()))
				err = models.Respond(c, models.NewInternalError(fmt.Errorf("panic: %v", r)))
			}
		}()

		err = c.Next()
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case models.CodeUnauthorized, models.CodeForbidden, models.CodeLoginFailed:
				return models.Respond(c, err)
			}
		}
		return err
	}
}
