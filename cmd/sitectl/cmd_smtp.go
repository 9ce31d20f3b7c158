package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hemkey/internal/config"
	"hemkey/internal/email"
)

var sendTest bool

// smtpCmd groups the mail relay commands
var smtpCmd = &cobra.Command{
	Use:   "smtp",
	Short: "Check the mail relay",
}

var smtpVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Connect, authenticate and optionally send a test email",
	Long: `Connect to the configured SMTP server, negotiate TLS and authenticate.

With --send-test a test message is also sent to SMTP_USER.`,
	RunE: runSMTPVerify,
}

func init() {
	smtpVerifyCmd.Flags().BoolVar(&sendTest, "send-test", false, "send a test email to SMTP_USER")
	smtpCmd.AddCommand(smtpVerifyCmd)
}

func runSMTPVerify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "SMTP configuration:")
	fmt.Fprintf(out, "  Host: %s\n", cfg.SMTPHost)
	fmt.Fprintf(out, "  Port: %d\n", cfg.SMTPPort)
	fmt.Fprintf(out, "  TLS:  %s\n", cfg.SMTPTLS)
	fmt.Fprintf(out, "  User: %s\n", valueOrNotSet(cfg.SMTPUsername))
	fmt.Fprintf(out, "  Pass: %s\n", setOrNotSet(cfg.SMTPPassword))

	site, err := config.LoadSiteContent(cfg.SiteConfigFile)
	if err != nil {
		return err
	}
	relay := email.NewRelay(cfg, site)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*cfg.SMTPTimeout)
	defer cancel()

	if sendTest {
		if err := relay.SendTest(ctx); err != nil {
			return describeSMTPError(err)
		}
		fmt.Fprintf(out, "Test email sent to %s\n", cfg.SMTPUsername)
		return nil
	}

	if err := relay.Verify(ctx); err != nil {
		return describeSMTPError(err)
	}
	fmt.Fprintln(out, "SMTP connection verified")
	return nil
}

func describeSMTPError(err error) error {
	switch email.ErrorCode(err) {
	case email.CodeAuth:
		return fmt.Errorf("%w\nauthentication failed: for Gmail use an app password and enable 2-step verification", err)
	case email.CodeConnection:
		return fmt.Errorf("%w\nconnection failed: check SMTP_HOST, SMTP_PORT and SMTP_TLS", err)
	case email.CodeTimeout:
		return fmt.Errorf("%w\nconnection timed out: check network access to the SMTP server", err)
	}
	return err
}

func valueOrNotSet(v string) string {
	if v == "" {
		return "not set"
	}
	return v
}

func setOrNotSet(v string) string {
	if v == "" {
		return "not set"
	}
	return "set"
}
