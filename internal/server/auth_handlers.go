package server

import (
	"errors"
	"strings"
	"time"

	"sideeffect/internal/dto"
	"sideeffect/internal/middleware"
	"sideeffect/internal/models"
	"sideeffect/internal/observability"
	"sideeffect/internal/security"
	"sideeffect/internal/security/oauth"

	"github.com/gofiber/fiber/v2"
)

const refreshCookieName = "refreshToken"

// FormLogin handles POST /api/user/login
// @Summary Email login
// @Description Authenticate with email and password; the refresh token is set as an HttpOnly cookie
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /user/login [post]
func (s *Server) FormLogin(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		observability.AuthResults.WithLabelValues("login_failed").Inc()
		middleware.Logger.WarnContext(c.UserContext(), "login failed", "error", err)
		return models.Respond(c, err)
	}
	return s.loginSuccess(c, user)
}

// SocialLogin handles POST /api/social/login
// @Summary OAuth2 login
// @Description Exchange an authorization code with the named provider and sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{provider=string,code=string} true "Provider and authorization code"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /social/login [post]
func (s *Server) SocialLogin(c *fiber.Ctx) error {
	var req struct {
		Provider string `json:"provider" form:"provider"`
		Code     string `json:"code" form:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.oauth.Login(c.UserContext(), strings.ToLower(strings.TrimSpace(req.Provider)), req.Code)
	switch {
	case err == nil:
		return s.loginSuccess(c, user)
	case errors.Is(err, oauth.ErrUnknownProvider), errors.Is(err, oauth.ErrMissingCode):
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
	}
	observability.AuthResults.WithLabelValues("login_failed").Inc()
	middleware.Logger.WarnContext(c.UserContext(), "social login failed", "provider", req.Provider, "error", err)
	return models.Respond(c, models.NewLoginFailedError(err))
}

// IssueAccessToken handles POST /api/token/at-issue
// @Summary Refresh the access token
// @Description Rotates the refresh token from the cookie (or body) and returns a new access token
// @Tags auth
// @Produce json
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /token/at-issue [post]
func (s *Server) IssueAccessToken(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookieName)
	if token == "" {
		var req struct {
			RefreshToken string `json:"refreshToken" form:"refreshToken"`
		}
		_ = c.BodyParser(&req)
		token = req.RefreshToken
	}
	if token == "" {
		return models.NewUnauthorizedError("Refresh token required")
	}

	userID, next, err := s.refresh.Rotate(c.UserContext(), token)
	if err != nil {
		if !errors.Is(err, security.ErrRefreshTokenNotFound) {
			middleware.Logger.ErrorContext(c.UserContext(), "refresh token rotation failed", "error", err)
		}
		s.clearRefreshCookie(c)
		return models.NewUnauthorizedError("Invalid refresh token")
	}

	user, err := s.userService.GetUser(c.UserContext(), userID)
	if err != nil {
		_ = s.refresh.Revoke(c.UserContext(), next)
		s.clearRefreshCookie(c)
		return models.NewUnauthorizedError("Invalid refresh token")
	}
	return s.respondWithTokens(c, user, next)
}

// Logout handles POST /api/user/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(refreshCookieName); token != "" {
		if err := s.refresh.Revoke(c.UserContext(), token); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "refresh token revoke failed", "error", err)
		}
	}
	s.clearRefreshCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) loginSuccess(c *fiber.Ctx, user *models.User) error {
	refresh, err := s.refresh.Issue(c.UserContext(), user.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	observability.AuthResults.WithLabelValues("login").Inc()
	return s.respondWithTokens(c, user, refresh)
}

func (s *Server) respondWithTokens(c *fiber.Ctx, user *models.User, refresh string) error {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return models.NewInternalError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    refresh,
		Path:     apiPrefix,
		MaxAge:   int(s.refresh.TTL() / time.Second),
		HTTPOnly: true,
		Secure:   s.config.Env == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(dto.TokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.AccessTTL() / time.Second),
		User:        dto.User(user),
	})
}

func (s *Server) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     apiPrefix,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
}
