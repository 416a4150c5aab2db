// Package auth protects the HTTP API with a shared API key.
package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// HeaderName is the request header the client presents the key in.
const HeaderName = "X-API-Key"

// Config holds the middleware settings.
type Config struct {
	// ApiKey is the shared secret. An empty key disables the check, which
	// is the normal mode for a loopback-only server.
	ApiKey string
}

// New returns a middleware that rejects requests without the configured
// API key. With no key configured every request passes through.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}

		presented := c.Get(HeaderName)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing API key",
			})
		}

		return c.Next()
	}
}
