package email

import (
	"fmt"
	"html"
	"strings"
	"time"

	"hemkey/internal/config"
	"hemkey/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg  *config.Config
	site *config.SiteContent
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config, site *config.SiteContent) *Templates {
	if site == nil {
		site = config.DefaultSiteContent()
	}
	return &Templates{cfg: cfg, site: site}
}

// inquiryContext holds the wording that differs between the contact and
// partner forms.
type inquiryContext struct {
	title        string
	tagline      string
	detailsLabel string
	closing      string
	formName     string
}

func (t *Templates) contextFor(inq *models.Inquiry) inquiryContext {
	if inq.IsPartnerRequest() {
		return inquiryContext{
			title:        fmt.Sprintf("New %s Partner Request", t.site.Brand),
			tagline:      "Partnership Opportunity Received",
			detailsLabel: "Partnership Details",
			closing:      "Our team will review your partnership request and get back to you shortly.",
			formName:     "partner form",
		}
	}
	return inquiryContext{
		title:        "New Contact Form Submission",
		tagline:      "Your Query Has Been Received",
		detailsLabel: "Query Details",
		closing:      fmt.Sprintf("This query was submitted via the %s website. Our team will reach out to you shortly.", t.site.Brand),
		formName:     "contact form",
	}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, tagline, content, footer string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #1a1a1a; background: #f8f9fa; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1a1a1a; color: #ffffff; padding: 30px 25px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 26px; border-bottom: 3px solid #D4AF37; display: inline-block; padding-bottom: 10px; }
        .header p { color: #D4AF37; margin: 10px 0 0 0; }
        .content { background: #ffffff; padding: 25px; }
        .info-box { background: #f8f9fa; border-left: 4px solid #D4AF37; border-radius: 8px; padding: 15px 20px; margin: 15px 0; }
        .info-box h2 { font-size: 18px; margin: 0 0 10px 0; }
        .label { font-size: 12px; color: #6c757d; text-transform: uppercase; font-weight: 600; }
        .value { font-size: 16px; font-weight: 600; margin-bottom: 8px; }
        .message { background: #fff9e6; border-left: 4px solid #D4AF37; padding: 15px; border-radius: 6px; }
        .meta { background: #e8f4fd; border-left: 4px solid #007bff; border-radius: 8px; padding: 15px 20px; font-size: 14px; color: #495057; }
        .footer { background: #1a1a1a; color: #D4AF37; padding: 25px; text-align: center; border-radius: 0 0 8px 8px; }
        .footer small { color: #6c757d; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
        <p>%s</p>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        %s
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), html.EscapeString(tagline), content, footer)
}

func htmlField(label, value string) string {
	return fmt.Sprintf(`<div class="label">%s</div><div class="value">%s</div>`,
		html.EscapeString(label), html.EscapeString(value))
}

// messageHTML escapes the free text and keeps its line breaks.
func messageHTML(message string) string {
	escaped := html.EscapeString(strings.ReplaceAll(message, "\r\n", "\n"))
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

func formatSubmitted(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.Format("02 Jan 2006 15:04:05 MST")
}

// BusinessSubject is the subject of the notification sent to the business.
// The submitter's own subject wins when given.
func (t *Templates) BusinessSubject(inq *models.Inquiry) string {
	if inq.Subject != "" {
		return inq.Subject
	}
	return "New Contact Form Submission: " + inq.Name
}

// ReceiptSubject is the subject of the courtesy copy sent to the submitter.
func (t *Templates) ReceiptSubject() string {
	return "Thank you for contacting " + t.site.Brand
}

// Inquiry renders the notification shared by the business email and the
// submitter's receipt. Both bodies carry the same fields.
func (t *Templates) Inquiry(inq *models.Inquiry) (htmlBody, textBody string) {
	ic := t.contextFor(inq)
	submitted := formatSubmitted(inq.SubmittedAt)
	clientIP := inq.ClientIP
	if clientIP == "" {
		clientIP = models.ClientIPUnknown
	}

	var contact strings.Builder
	contact.WriteString(htmlField("Full Name", inq.Name))
	contact.WriteString(htmlField("Email Address", inq.Email))
	contact.WriteString(htmlField("Phone Number", inq.Phone))
	if inq.Company != "" {
		contact.WriteString(htmlField("Company", inq.Company))
	}

	var details strings.Builder
	if inq.Subject != "" && !inq.IsPartnerRequest() {
		details.WriteString(htmlField("Subject", inq.Subject))
	}
	if inq.Budget != "" {
		details.WriteString(htmlField("Budget", inq.Budget))
	}
	if inq.PropertyType != "" {
		details.WriteString(htmlField("Property Type", inq.PropertyType))
	}

	content := fmt.Sprintf(`
        <div class="info-box">
            <h2>Contact Information</h2>
            %s
        </div>

        <div class="info-box">
            <h2>%s</h2>
            %s
            <div class="label">Message</div>
            <div class="message">%s</div>
        </div>

        <div class="meta">
            <p><strong>Submission Time:</strong> %s</p>
            <p><strong>IP Address:</strong> %s</p>
            <p><strong>Reference:</strong> %s</p>
        </div>
    `,
		contact.String(),
		html.EscapeString(ic.detailsLabel),
		details.String(),
		messageHTML(inq.Message),
		html.EscapeString(submitted),
		html.EscapeString(clientIP),
		html.EscapeString(inq.Reference.String()),
	)

	footer := fmt.Sprintf(`<h3>Thank You for Connecting with %s</h3>
        <p>%s</p>
        <small>This email was sent from the %s website %s.</small>`,
		html.EscapeString(t.site.Brand),
		html.EscapeString(ic.closing),
		html.EscapeString(t.site.Brand),
		ic.formName,
	)

	htmlBody = t.baseHTML(ic.title, ic.tagline, content, footer)

	var text strings.Builder
	text.WriteString(ic.title + "\n\n")
	text.WriteString("Contact Information:\n")
	text.WriteString("- Full Name: " + inq.Name + "\n")
	text.WriteString("- Email Address: " + inq.Email + "\n")
	text.WriteString("- Phone Number: " + inq.Phone + "\n")
	if inq.Company != "" {
		text.WriteString("- Company: " + inq.Company + "\n")
	}
	text.WriteString("\n" + ic.detailsLabel + ":\n")
	if inq.Subject != "" && !inq.IsPartnerRequest() {
		text.WriteString("- Subject: " + inq.Subject + "\n")
	}
	if inq.Budget != "" {
		text.WriteString("- Budget: " + inq.Budget + "\n")
	}
	if inq.PropertyType != "" {
		text.WriteString("- Property Type: " + inq.PropertyType + "\n")
	}
	text.WriteString("- Message: " + inq.Message + "\n\n")
	text.WriteString("Submission Time: " + submitted + "\n")
	text.WriteString("IP Address: " + clientIP + "\n")
	text.WriteString("Reference: " + inq.Reference.String() + "\n\n")
	text.WriteString("---\n")
	text.WriteString(fmt.Sprintf("This email was sent from the %s website %s.\n", t.site.Brand, ic.formName))

	textBody = text.String()
	return
}

// TransportTest renders the message sent by the SMTP self-check.
func (t *Templates) TransportTest(sentAt time.Time) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("SMTP Test - %s Website", t.site.Brand)

	content := fmt.Sprintf(`
        <p>Your email configuration is working correctly.</p>
        <div class="info-box">
            %s%s%s%s
        </div>
    `,
		htmlField("Host", t.cfg.SMTPHost),
		htmlField("Port", fmt.Sprint(t.cfg.SMTPPort)),
		htmlField("User", t.cfg.SMTPUsername),
		htmlField("Timestamp", sentAt.UTC().Format(time.RFC3339)),
	)

	htmlBody = t.baseHTML("SMTP Test Successful", t.site.Brand, content, html.EscapeString(t.cfg.BaseURL))

	textBody = fmt.Sprintf(`SMTP Test Successful

Your email configuration is working correctly.

Host: %s
Port: %d
User: %s
Timestamp: %s
`,
		t.cfg.SMTPHost,
		t.cfg.SMTPPort,
		t.cfg.SMTPUsername,
		sentAt.UTC().Format(time.RFC3339),
	)

	return
}
