package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"hemkey/internal/config"
	"hemkey/internal/email"
	"hemkey/internal/middleware"
	"hemkey/internal/models"
	"hemkey/internal/validation"
)

// Deliverer relays a validated inquiry by email.
type Deliverer interface {
	Deliver(ctx context.Context, inq *models.Inquiry) (*models.DeliveryResult, error)
}

// MailHandler accepts contact and partner form submissions.
type MailHandler struct {
	relay Deliverer
	cfg   *config.Config
}

// NewMailHandler creates a new form submission handler.
func NewMailHandler(relay Deliverer, cfg *config.Config) *MailHandler {
	return &MailHandler{relay: relay, cfg: cfg}
}

// Send validates the submission and relays it to the business and the
// submitter. A failed receipt still answers 200 and reports the failure.
func (h *MailHandler) Send(c fiber.Ctx) error {
	var inq models.Inquiry
	if err := c.Bind().Body(&inq); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	inq.Normalize()

	if err := validation.ValidateInquiry(&inq); err != nil {
		if errors.Is(err, validation.ErrInvalidEmail) {
			return jsonError(c, fiber.StatusBadRequest, "Invalid email format")
		}
		return jsonError(c, fiber.StatusBadRequest, "Missing required fields")
	}

	inq.ClientIP = middleware.GetClientIP(c)

	result, err := h.relay.Deliver(c.Context(), &inq)
	if err != nil {
		slog.Error("email sending error", "code", email.ErrorCode(err), "error", err)
		return jsonServerError(c, h.cfg.IsDev(), deliveryErrorMessage(err), fiber.Map{
			"message": err.Error(),
			"code":    email.ErrorCode(err),
		})
	}

	message := "Query submitted successfully"
	if inq.IsPartnerRequest() {
		message = "Partner request sent successfully"
	}

	return c.JSON(models.SendMailResponse{
		Success:        true,
		Message:        message,
		UserEmailSent:  result.UserSent,
		UserEmailError: result.UserError,
	})
}

// deliveryErrorMessage maps a relay failure to the text shown to visitors.
func deliveryErrorMessage(err error) string {
	switch {
	case errors.Is(err, email.ErrNotConfigured):
		return "Email service not configured. Please contact support."
	case email.IsVerify(err):
		return "Email service configuration error. Please contact support."
	}

	switch email.ErrorCode(err) {
	case email.CodeAuth:
		return "Email authentication failed. Please check SMTP credentials."
	case email.CodeConnection:
		return "Email connection failed. Please check SMTP settings."
	case email.CodeTimeout:
		return "Email connection timed out. Please try again."
	default:
		return "Failed to send email. Please try again later."
	}
}
