package server

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"sideeffect/internal/middleware"
	"sideeffect/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "boardId" -> "board ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// parseLastID reads the optional lastId cursor. Absent or empty means the first page.
func parseLastID(c *fiber.Ctx) (*uint, error) {
	raw := strings.TrimSpace(c.Query("lastId"))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, models.NewValidationError("Invalid lastId")
	}
	id := uint(v)
	return &id, nil
}

// queryList collects a repeated query parameter, also splitting comma separated values.
func queryList(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// currentUserID returns the caller's user ID or an unauthenticated error.
func currentUserID(c *fiber.Ctx) (uint, error) {
	p, err := middleware.RequirePrincipal(c)
	if err != nil {
		return 0, err
	}
	return p.UserID, nil
}

// viewerID is currentUserID for endpoints that also serve anonymous callers.
func viewerID(c *fiber.Ctx) uint {
	if p := middleware.PrincipalFrom(c); p != nil {
		return p.UserID
	}
	return 0
}

// normalizeError gives bare persistence errors an application error code.
func normalizeError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &models.AppError{Code: models.CodeNotFound, Message: "Resource not found", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &models.AppError{Code: models.CodeConflict, Message: "Resource already exists", Err: err}
	}
	return err
}
