// Package scheduler периодически находит абонентов с задолженностью
// и публикует напоминания в очередь RabbitMQ.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/billing-dashboard/internal/billing"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// Repo описывает чтение абонентов из хранилища.
type Repo interface {
	ListSubscribers(ctx context.Context) ([]*models.Subscriber, error)
}

// Publisher описывает публикацию напоминаний в очередь.
type Publisher interface {
	Publish(notice models.ReminderNotice) error
}

// Service обходит абонентов по расписанию и рассылает напоминания должникам.
type Service struct {
	repo      Repo
	publisher Publisher
	interval  time.Duration
	log       *slog.Logger
}

// New создает планировщик напоминаний.
func New(repo Repo, publisher Publisher, interval time.Duration, log *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, interval: interval, log: log}
}

// Run запускает цикл планировщика. Первый обход выполняется сразу,
// дальше — по тикеру до отмены контекста.
func (s *Service) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// sweep публикует напоминания для всех абонентов с задолженностью.
// Отказ одной записи не прерывает обход остальных.
func (s *Service) sweep(ctx context.Context) {
	subs, err := s.repo.ListSubscribers(ctx)
	if err != nil {
		s.log.Error("failed to list subscribers", sl.Err(err))
		return
	}

	now := time.Now()
	var published int
	for _, sub := range subs {
		if sub == nil {
			continue
		}
		due, err := billing.IsDue(*sub, now)
		if err != nil {
			s.log.Warn("skipping subscriber with invalid start date",
				slog.String("id", sub.ID))
			continue
		}
		if !due {
			continue
		}
		notice, err := billing.ComposeNotice(*sub, now)
		if err != nil {
			s.log.Warn("failed to compose notice",
				slog.String("id", sub.ID), sl.Err(err))
			continue
		}
		err = s.publisher.Publish(models.ReminderNotice{
			SubscriberID: sub.ID,
			Name:         sub.Name,
			Phone:        sub.Phone,
			Message:      notice.Message,
			WhatsAppLink: notice.WhatsAppLink,
			TotalDue:     notice.TotalDue,
			DueDate:      notice.DueDate,
		})
		if err != nil {
			s.log.Error("failed to publish notice",
				slog.String("id", sub.ID), sl.Err(err))
			continue
		}
		published++
	}
	s.log.Info("reminder sweep finished",
		slog.Int("subscribers", len(subs)),
		slog.Int("published", published))
}
