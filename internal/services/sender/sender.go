// Package sender отправляет оператору письма с напоминаниями из очереди.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/billing-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/smtp"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// Service пересылает напоминания о задолженности на почту оператора.
// Письмо содержит готовый текст напоминания и ссылку wa.me, по которой
// оператор отправляет сообщение абоненту в WhatsApp.
type Service struct {
	transport     smtp.TransportInterface
	operatorEmail string
	log           *slog.Logger
}

// New создает сервис отправки напоминаний.
func New(transport smtp.TransportInterface, operatorEmail string, log *slog.Logger) *Service {
	return &Service{
		transport:     transport,
		operatorEmail: operatorEmail,
		log:           log,
	}
}

// SendDueReminder обрабатывает одно сообщение очереди напоминаний.
func (s *Service) SendDueReminder(body []byte) error {
	var notice models.ReminderNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{s.operatorEmail}
	subject := fmt.Sprintf("Напоминание об оплате: %s", notice.Name)
	bodyText := fmt.Sprintf(`Абонент %s (тел. %s) имеет задолженность %.2f.

Текст напоминания:
%s

Ссылка для отправки в WhatsApp:
%s`,
		notice.Name, notice.Phone, notice.TotalDue, notice.Message, notice.WhatsAppLink)

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
