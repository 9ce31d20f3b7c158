package api

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"hemkey/internal/models"
)

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{Error: message})
}

// jsonServerError returns a 500 with a timestamp. details is only sent in
// development.
func jsonServerError(c fiber.Ctx, dev bool, message string, details any) error {
	resp := models.ErrorResponse{
		Error:     message,
		Timestamp: timestamp(time.Now()),
	}
	if dev {
		resp.Details = details
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}

func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
