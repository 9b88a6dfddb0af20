package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/agrolease/agrolease-backend/internal/app/config"
)

// GomailSender sends account emails over SMTP. The app wires a nil mailer
// into the usecases when no SMTP host is configured.
type GomailSender struct {
	cfg *config.SMTPConfig
}

func NewGomailSender(cfg *config.SMTPConfig) *GomailSender {
	return &GomailSender{cfg: cfg}
}

func (s *GomailSender) SendWelcomeEmail(toEmail, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SenderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to AgroLease")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour AgroLease account has been created. You can now browse land leases and equipment rentals across Bauchi State.\n", name))

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
