package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hemkey/internal/config"
	"hemkey/internal/metrics"
	"hemkey/internal/models"
)

// Transport verifies and sends mail. *Service is the SMTP implementation.
type Transport interface {
	Verify(ctx context.Context) error
	Send(ctx context.Context, msg Message) error
}

// Relay turns an inquiry into the business notification and the
// submitter's receipt.
type Relay struct {
	transport Transport
	templates *Templates
	cfg       *config.Config
	now       func() time.Time
}

// NewRelay creates a relay sending through SMTP.
func NewRelay(cfg *config.Config, site *config.SiteContent) *Relay {
	return NewRelayWithTransport(cfg, site, NewService(cfg))
}

// NewRelayWithTransport creates a relay with a custom transport.
func NewRelayWithTransport(cfg *config.Config, site *config.SiteContent, transport Transport) *Relay {
	return &Relay{
		transport: transport,
		templates: NewTemplates(cfg, site),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Templates returns the relay's template set.
func (r *Relay) Templates() *Templates {
	return r.templates
}

// Deliver sends the inquiry to the business address and a receipt to the
// submitter. Only the business email is required: a failed receipt is
// reported in the result and does not fail the call.
//
// The inquiry must already be validated.
func (r *Relay) Deliver(ctx context.Context, inq *models.Inquiry) (*models.DeliveryResult, error) {
	if !r.cfg.IsEmailConfigured() {
		return nil, ErrNotConfigured
	}

	if err := r.transport.Verify(ctx); err != nil {
		slog.Error("mail transport verification failed", "code", ErrorCode(err), "error", err)
		return nil, err
	}

	if inq.Reference == uuid.Nil {
		inq.Reference = uuid.New()
	}
	if inq.SubmittedAt.IsZero() {
		inq.SubmittedAt = r.now()
	}
	if inq.ClientIP == "" {
		inq.ClientIP = models.ClientIPUnknown
	}

	htmlBody, textBody := r.templates.Inquiry(inq)

	err := r.transport.Send(ctx, Message{
		To:      []string{r.cfg.BusinessEmail},
		ReplyTo: inq.Email,
		Subject: r.templates.BusinessSubject(inq),
		HTML:    htmlBody,
		Text:    textBody,
	})
	metrics.RecordMailDelivery("business", err)
	if err != nil {
		slog.Error("failed to send inquiry notification", "reference", inq.Reference, "code", ErrorCode(err), "error", err)
		return nil, err
	}

	result := &models.DeliveryResult{BusinessSent: true}

	err = r.transport.Send(ctx, Message{
		To:      []string{inq.Email},
		Subject: r.templates.ReceiptSubject(),
		HTML:    htmlBody,
		Text:    textBody,
	})
	metrics.RecordMailDelivery("submitter", err)
	if err != nil {
		slog.Warn("failed to send inquiry receipt", "reference", inq.Reference, "error", err)
		msg := "User confirmation email failed: " + err.Error()
		result.UserError = &msg
	} else {
		result.UserSent = true
	}

	slog.Info("inquiry relayed",
		"reference", inq.Reference,
		"partner", inq.IsPartnerRequest(),
		"receipt", result.UserSent,
	)

	return result, nil
}

// SendTest verifies the transport and mails the SMTP self-check to the
// configured SMTP user.
func (r *Relay) SendTest(ctx context.Context) error {
	if !r.cfg.IsEmailConfigured() {
		return ErrNotConfigured
	}
	if err := r.transport.Verify(ctx); err != nil {
		return err
	}

	subject, htmlBody, textBody := r.templates.TransportTest(r.now())
	return r.transport.Send(ctx, Message{
		To:      []string{r.cfg.SMTPUsername},
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	})
}

// Verify checks connectivity and credentials with the mail transport.
func (r *Relay) Verify(ctx context.Context) error {
	if !r.cfg.IsEmailConfigured() {
		return ErrNotConfigured
	}
	return r.transport.Verify(ctx)
}
