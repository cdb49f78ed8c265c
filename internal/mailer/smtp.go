package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"devhub/internal/config"
)

// Sender delivers mail over plain-auth SMTP.
type Sender struct {
	cfg config.SMTPConfig
}

func NewSender(cfg config.SMTPConfig) *Sender {
	return &Sender{cfg: cfg}
}

func (s *Sender) Send(subject, body string, recipients []string) error {
	message := fmt.Appendf(nil, "To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", strings.Join(recipients, ","), subject, body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := s.cfg.Host + ":" + s.cfg.Port

	if err := smtp.SendMail(addr, auth, s.cfg.From, recipients, message); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

// SendConfirmation sends the registration confirmation mail with the signed
// confirmation link.
func (s *Sender) SendConfirmation(name, email, confirmURL string) error {
	subject := "Confirm Email"
	body := fmt.Sprintf(
		"Hurrah! You've created a DevHub account with %s. "+
			"Please take a moment to confirm that we can use this address to send you mails.\r\n\r\n%s",
		email, confirmURL)
	return s.Send(subject, body, []string{email})
}
