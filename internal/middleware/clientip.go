package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"hemkey/internal/models"
)

// clientIPKey is the Locals key holding the resolved submitter address.
const clientIPKey = "client_ip"

// ClientIP records the originating client address for the request.
// Forwarding headers are trusted as sent; the site runs behind a proxy.
func ClientIP(c fiber.Ctx) error {
	c.Locals(clientIPKey, resolveClientIP(
		c.Get("X-Forwarded-For"),
		c.Get("X-Real-IP"),
		c.Get("CF-Connecting-IP"),
	))
	return c.Next()
}

// GetClientIP returns the address stored by ClientIP, or "Unknown".
func GetClientIP(c fiber.Ctx) string {
	if ip, ok := c.Locals(clientIPKey).(string); ok && ip != "" {
		return ip
	}
	return models.ClientIPUnknown
}

// resolveClientIP picks the first hop of X-Forwarded-For, then X-Real-IP,
// then CF-Connecting-IP.
func resolveClientIP(forwardedFor, realIP, cfConnectingIP string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(realIP); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(cfConnectingIP); ip != "" {
		return ip
	}
	return models.ClientIPUnknown
}

// NoStore marks the response as uncacheable.
func NoStore(c fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Next()
}
