package notifier

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/magabrotheeeer/finance-dashboard/internal/config"
)

// SMTPMailer отправляет письма через SMTP-сервер из конфигурации.
type SMTPMailer struct {
	addr   string
	auth   smtp.Auth
	sender string
}

// NewSMTPMailer создает SMTPMailer. Без пользователя письма отправляются без авторизации.
func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	m := &SMTPMailer{
		addr:   fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort),
		sender: cfg.SenderEmail,
	}
	if cfg.SMTPUser != "" {
		m.auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	if m.sender == "" {
		m.sender = cfg.SMTPUser
	}
	return m
}

// From возвращает адрес отправителя.
func (m *SMTPMailer) From() string {
	return m.sender
}

// Send отправляет письмо.
func (m *SMTPMailer) Send(e *email.Email) error {
	const op = "notifier.SMTPMailer.Send"
	if err := e.Send(m.addr, m.auth); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
