// Package flash passes one-shot messages between requests through a
// short-lived cookie, read and cleared by the next page render.
package flash

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the cookie carrying the pending flash message.
const CookieName = "flash"

// Categories understood by the templates.
const (
	CategoryInfo    = "info"
	CategoryWarning = "warning"
	CategoryError   = "danger"
)

// Message is a single flashed message.
type Message struct {
	Category string
	Text     string
}

// Set queues a message for the next request.
func Set(c *fiber.Ctx, category, text string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    base64.URLEncoding.EncodeToString([]byte(category + "|" + text)),
		MaxAge:   60,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// Get returns the pending message, if any, and clears it.
func Get(c *fiber.Ctx) *Message {
	raw := c.Cookies(CookieName)
	if raw == "" {
		return nil
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}

	msg := &Message{Category: CategoryInfo, Text: string(decoded)}

	for i := 0; i < len(decoded); i++ {
		if decoded[i] == '|' {
			msg.Category = string(decoded[:i])
			msg.Text = string(decoded[i+1:])

			break
		}
	}

	return msg
}
