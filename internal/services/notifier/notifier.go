// Package notifier превращает предупреждения о продлении подписок в письма.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jordan-wright/email"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

// Mailer отправляет подготовленное письмо.
type Mailer interface {
	From() string
	Send(e *email.Email) error
}

// Service обрабатывает сообщения из очереди предупреждений.
type Service struct {
	mailer Mailer
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(mailer Mailer, log *slog.Logger) *Service {
	return &Service{mailer: mailer, log: log}
}

// HandleRenewalNotice разбирает RenewalNotice и отправляет письмо владельцу подписки.
// Сообщения без адреса пропускаются без ошибки, чтобы не зацикливать их в очереди.
func (s *Service) HandleRenewalNotice(_ context.Context, body []byte) error {
	const op = "notifier.HandleRenewalNotice"
	log := s.log.With(slog.String("op", op))

	var notice models.RenewalNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if notice.Email == "" {
		log.Warn("renewal notice without recipient", slog.Int("subscription_id", notice.SubscriptionID))
		return nil
	}

	e := email.NewEmail()
	e.From = s.mailer.From()
	e.To = []string{notice.Email}
	e.Subject = subject(notice)
	e.Text = []byte(fmt.Sprintf(
		"Здравствуйте, %s!\n\n%s\n\nСервис: %s\nДата продления: %s\n",
		notice.Username, notice.Message, notice.ServiceName, notice.RenewalDate,
	))

	if err := s.mailer.Send(e); err != nil {
		log.Error("failed to send email", slog.String("to", notice.Email), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("email sent successfully", slog.String("to", notice.Email), slog.Int("subscription_id", notice.SubscriptionID))
	return nil
}

func subject(n models.RenewalNotice) string {
	if n.AlertType == finance.AlertCritical {
		return fmt.Sprintf("Срочно: пробный период %s скоро закончится", n.ServiceName)
	}
	return fmt.Sprintf("Скоро продление подписки %s", n.ServiceName)
}
