package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"hemkey/internal/config"
)

// Message is one outbound email with HTML and plain-text alternatives.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Service sends email over SMTP. Every call opens its own connection.
type Service struct {
	cfg     *config.Config
	enabled bool
}

// NewService creates a new email service.
func NewService(cfg *config.Config) *Service {
	s := &Service{
		cfg:     cfg,
		enabled: cfg.IsEmailConfigured(),
	}

	if s.enabled {
		log.Printf("Email relay enabled (SMTP: %s, TLS: %s)", cfg.SMTPAddr(), cfg.SMTPTLS)
	} else {
		log.Println("Email relay disabled (SMTP_USER/SMTP_PASS not set)")
	}

	return s
}

// IsEnabled returns true if SMTP credentials are configured.
func (s *Service) IsEnabled() bool {
	return s.enabled
}

// Verify connects, negotiates TLS and authenticates without sending anything.
func (s *Service) Verify(ctx context.Context) error {
	if !s.enabled {
		return ErrNotConfigured
	}

	client, code, err := s.connect(ctx)
	if err != nil {
		return &TransportError{Stage: StageVerify, Code: code, Err: err}
	}
	defer client.Close()

	if err := client.Quit(); err != nil {
		return &TransportError{Stage: StageVerify, Code: ioCode(err), Err: err}
	}
	return nil
}

// Send delivers msg to all of its recipients in one SMTP transaction.
func (s *Service) Send(ctx context.Context, msg Message) error {
	if !s.enabled {
		return ErrNotConfigured
	}

	if len(msg.To) == 0 {
		return nil
	}

	raw := buildMessage(s.fromHeader(), msg, time.Now(), s.messageID())

	client, code, err := s.connect(ctx)
	if err != nil {
		return &TransportError{Stage: StageSend, Code: code, Err: err}
	}
	defer client.Close()

	if err := s.transmit(client, msg.To, raw); err != nil {
		return &TransportError{Stage: StageSend, Code: ioCode(err), Err: err}
	}
	return nil
}

func (s *Service) transmit(client *smtp.Client, to []string, raw string) error {
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("SMTP MAIL failed: %w", err)
	}

	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("SMTP RCPT failed: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA failed: %w", err)
	}

	if _, err := w.Write([]byte(raw)); err != nil {
		return fmt.Errorf("SMTP write failed: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("SMTP close failed: %w", err)
	}

	return client.Quit()
}

// connect dials according to SMTP_TLS and authenticates.
// The returned code classifies the failure for the caller.
func (s *Service) connect(ctx context.Context) (*smtp.Client, string, error) {
	addr := s.cfg.SMTPAddr()
	dialer := &net.Dialer{Timeout: s.cfg.SMTPTimeout}

	var conn net.Conn
	var err error
	if s.cfg.SMTPTLS == "tls" {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: s.tlsConfig()}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, dialCode(err), fmt.Errorf("dial %s: %w", addr, err)
	}

	deadline := time.Now().Add(s.cfg.SMTPTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if s.cfg.SMTPTimeout > 0 {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return nil, dialCode(err), fmt.Errorf("SMTP client failed: %w", err)
	}

	if s.cfg.SMTPTLS == "starttls" || s.cfg.SMTPTLS == "" {
		if err := client.StartTLS(s.tlsConfig()); err != nil {
			client.Close()
			return nil, dialCode(err), fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		client.Close()
		code := CodeAuth
		if isTimeout(err) {
			code = CodeTimeout
		}
		return nil, code, fmt.Errorf("SMTP auth failed: %w", err)
	}

	return client, "", nil
}

func (s *Service) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName: s.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
}

func (s *Service) fromHeader() string {
	if s.cfg.SMTPFromName != "" {
		return (&mail.Address{Name: s.cfg.SMTPFromName, Address: s.cfg.SMTPFrom}).String()
	}
	return s.cfg.SMTPFrom
}

func (s *Service) messageID() string {
	domain := "localhost"
	if at := strings.LastIndex(s.cfg.SMTPFrom, "@"); at >= 0 && at < len(s.cfg.SMTPFrom)-1 {
		domain = s.cfg.SMTPFrom[at+1:]
	}
	return "<" + uuid.NewString() + "@" + domain + ">"
}

// buildMessage renders msg as an RFC 5322 message. Both bodies present gives
// multipart/alternative with the plain-text part first.
func buildMessage(from string, msg Message, date time.Time, messageID string) string {
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	if msg.ReplyTo != "" {
		b.WriteString("Reply-To: " + msg.ReplyTo + "\r\n")
	}
	b.WriteString("Subject: " + mime.QEncoding.Encode("UTF-8", msg.Subject) + "\r\n")
	b.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("Message-ID: " + messageID + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case msg.HTML != "" && msg.Text != "":
		boundary := "hemkey-" + strings.ReplaceAll(uuid.NewString(), "-", "")
		b.WriteString("Content-Type: multipart/alternative; boundary=\"" + boundary + "\"\r\n")
		b.WriteString("\r\n")
		writePart(&b, boundary, "text/plain", msg.Text)
		writePart(&b, boundary, "text/html", msg.HTML)
		b.WriteString("--" + boundary + "--\r\n")
	case msg.HTML != "":
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		b.WriteString("\r\n")
		b.WriteString(msg.HTML)
		b.WriteString("\r\n")
	default:
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		b.WriteString("\r\n")
		b.WriteString(msg.Text)
		b.WriteString("\r\n")
	}

	return b.String()
}

func writePart(b *strings.Builder, boundary, contentType, body string) {
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: " + contentType + "; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
}
