package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/loftlabs/loft/internal/pkg/env"
)

// SendMail sends a plain-text email via SMTP using the SMTP_* env config.
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnvInt("SMTP_PORT", 25)
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%d", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	}
	return err
}

// MailAdmins sends the message to every address in ADMIN_EMAIL
// (comma-separated). Missing configuration is reported as an error; the
// comment flow treats it as a logged, non-fatal condition.
func MailAdmins(subject string, body string) error {
	admins := env.GetEnv("ADMIN_EMAIL", "")
	if admins == "" {
		return fmt.Errorf("ADMIN_EMAIL is not set")
	}

	var firstErr error
	for _, to := range strings.Split(admins, ",") {
		to = strings.TrimSpace(to)
		if to == "" {
			continue
		}
		if err := SendMail(to, subject, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
