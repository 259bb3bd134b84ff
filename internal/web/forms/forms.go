// Package forms normalizes submitted form data before it reaches the
// controllers. Browsers may send several values per field name; the
// controllers only ever want one.
package forms

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Flatten reduces a multi-valued form to single values, keeping the
// first value of each field. Keys with no values are dropped.
func Flatten(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}

		out[key] = vals[0]
	}

	return out
}

// PostForm returns the flattened POST body of the request.
func PostForm(c *fiber.Ctx) (map[string]string, error) {
	form, err := c.MultipartForm()
	if err == nil {
		return Flatten(form.Value), nil
	}

	// Fall back to urlencoded bodies.
	args := make(map[string][]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		args[k] = append(args[k], string(value))
	})

	return Flatten(args), nil
}

// TrimmedValue returns the named field with surrounding whitespace removed.
func TrimmedValue(form map[string]string, key string) string {
	return strings.TrimSpace(form[key])
}
