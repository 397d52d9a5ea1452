package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/validation"
)

// queryLimit reads the "limit" query parameter. A missing value yields def;
// larger values are clamped to ceiling.
func queryLimit(c *fiber.Ctx, def, ceiling int) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidQuery("limit", "value is not a valid integer")
	}
	if limit < 1 {
		return 0, invalidQuery("limit", "ensure this value is greater than or equal to 1")
	}
	if limit > ceiling {
		limit = ceiling
	}
	return limit, nil
}

// queryBool reads an optional boolean query parameter. ok is false when the
// parameter is absent.
func queryBool(c *fiber.Ctx, name string) (value, ok bool, err error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return false, false, nil
	}
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "on":
		return true, true, nil
	case "false", "0", "no", "off":
		return false, true, nil
	default:
		return false, false, invalidQuery(name, "value could not be parsed to a boolean")
	}
}

// requiredQuery reads a query parameter that must be present and non-empty.
func requiredQuery(c *fiber.Ctx, name string) (string, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return "", invalidQuery(name, "field required")
	}
	return raw, nil
}

func invalidQuery(name, message string) error {
	return &validation.ValidationError{Fields: map[string]string{name: message}}
}
