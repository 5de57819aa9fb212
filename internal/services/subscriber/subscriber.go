// Package subscriber содержит бизнес-логику работы с абонентами:
// создание и изменение записей, отметки об оплате, скидки и напоминания.
package subscriber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/billing-dashboard/internal/billing"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/period"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// ErrNotDue возвращается при запросе напоминания для абонента без задолженности.
var ErrNotDue = errors.New("subscriber has no outstanding periods")

const startDateLayout = "2006-01-02"

// Repo описывает операции хранилища абонентов.
type Repo interface {
	CreateSubscriber(ctx context.Context, sub models.Subscriber) (string, error)
	ReadSubscriber(ctx context.Context, id string) (*models.Subscriber, error)
	UpdateSubscriber(ctx context.Context, sub models.Subscriber, id string) (int, error)
	RemoveSubscriber(ctx context.Context, id string) (int, error)
	ListSubscribers(ctx context.Context) ([]*models.Subscriber, error)
	UpsertPayment(ctx context.Context, id, periodKey string, amount float64) (int, error)
	UpsertDiscount(ctx context.Context, id, periodKey string, amount float64) (int, error)
}

// Cache описывает операции кэша.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

const subscriberCacheTTL = 5 * time.Minute

// Service реализует операции над абонентами.
type Service struct {
	repo  Repo
	cache Cache
	log   *slog.Logger
}

// New создает сервис абонентов.
func New(repo Repo, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// Create добавляет нового абонента.
func (s *Service) Create(ctx context.Context, dummy models.DummySubscriber) (string, error) {
	const op = "services.subscriber.Create"
	startDate, err := time.Parse(startDateLayout, dummy.StartDate)
	if err != nil {
		return "", fmt.Errorf("%s: invalid start date: %w", op, err)
	}
	payments := dummy.Payments
	if payments == nil {
		payments = map[string]float64{}
	}
	discounts := dummy.Discounts
	if discounts == nil {
		discounts = map[string]float64{}
	}
	sub := models.Subscriber{
		Name:      dummy.Name,
		Phone:     dummy.Phone,
		StartDate: startDate,
		Payments:  payments,
		Discounts: discounts,
	}
	id, err := s.repo.CreateSubscriber(ctx, sub)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateReports()
	return id, nil
}

// List возвращает всех абонентов с расчетом состояния счета на текущий момент.
func (s *Service) List(ctx context.Context) ([]billing.SubscriberView, error) {
	const op = "services.subscriber.List"
	subs, err := s.repo.ListSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := time.Now()
	views := make([]billing.SubscriberView, 0, len(subs))
	for _, sub := range subs {
		if sub == nil {
			continue
		}
		view, err := billing.BuildView(*sub, now)
		if err != nil {
			s.log.Warn("skipping subscriber with invalid start date",
				slog.String("id", sub.ID), sl.Err(err))
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

// Update изменяет данные абонента. Карты платежей и скидок перезаписываются
// только если присутствуют в запросе, иначе сохраняются прежние.
func (s *Service) Update(ctx context.Context, id string, dummy models.DummySubscriber) (int, error) {
	const op = "services.subscriber.Update"
	startDate, err := time.Parse(startDateLayout, dummy.StartDate)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid start date: %w", op, err)
	}
	existing, err := s.repo.ReadSubscriber(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	existing.Name = dummy.Name
	existing.Phone = dummy.Phone
	existing.StartDate = startDate
	if dummy.Payments != nil {
		existing.Payments = dummy.Payments
	}
	if dummy.Discounts != nil {
		existing.Discounts = dummy.Discounts
	}
	counter, err := s.repo.UpdateSubscriber(ctx, *existing, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(id)
	return counter, nil
}

// Remove удаляет абонента.
func (s *Service) Remove(ctx context.Context, id string) (int, error) {
	const op = "services.subscriber.Remove"
	counter, err := s.repo.RemoveSubscriber(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(id)
	return counter, nil
}

// RecordPayment отмечает оплату за период. Пустой период означает текущий месяц.
// Повторная отметка за тот же период перезаписывает сумму.
func (s *Service) RecordPayment(ctx context.Context, id string, entry models.DummyLedgerEntry) (int, error) {
	const op = "services.subscriber.RecordPayment"
	key, err := resolvePeriod(entry.Period)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	counter, err := s.repo.UpsertPayment(ctx, id, key, entry.Amount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(id)
	return counter, nil
}

// GrantDiscount назначает скидку за период. Пустой период означает текущий месяц.
func (s *Service) GrantDiscount(ctx context.Context, id string, entry models.DummyLedgerEntry) (int, error) {
	const op = "services.subscriber.GrantDiscount"
	key, err := resolvePeriod(entry.Period)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	counter, err := s.repo.UpsertDiscount(ctx, id, key, entry.Amount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(id)
	return counter, nil
}

// Reminder формирует текст напоминания и ссылку WhatsApp для абонента.
func (s *Service) Reminder(ctx context.Context, id string) (*models.ReminderNotice, error) {
	const op = "services.subscriber.Reminder"
	sub, err := s.readSubscriber(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := time.Now()
	due, err := billing.IsDue(*sub, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !due {
		return nil, fmt.Errorf("%s: %w", op, ErrNotDue)
	}
	notice, err := billing.ComposeNotice(*sub, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.ReminderNotice{
		SubscriberID: sub.ID,
		Name:         sub.Name,
		Phone:        sub.Phone,
		Message:      notice.Message,
		WhatsAppLink: notice.WhatsAppLink,
		TotalDue:     notice.TotalDue,
		DueDate:      notice.DueDate,
	}, nil
}

// readSubscriber читает запись абонента через кэш. Промах или отказ кэша
// прозрачно уводит чтение в хранилище.
func (s *Service) readSubscriber(ctx context.Context, id string) (*models.Subscriber, error) {
	key := "subscriber:" + id
	var cached models.Subscriber
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}
	sub, err := s.repo.ReadSubscriber(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, sub, subscriberCacheTTL); err != nil {
		s.log.Warn("failed to write cache", sl.Err(err))
	}
	return sub, nil
}

func (s *Service) invalidate(id string) {
	if err := s.cache.Invalidate("subscriber:" + id); err != nil {
		s.log.Warn("failed to invalidate cache", sl.Err(err))
	}
	s.invalidateReports()
}

func (s *Service) invalidateReports() {
	if err := s.cache.Invalidate("dashboard:report"); err != nil {
		s.log.Warn("failed to invalidate cache", sl.Err(err))
	}
}

func resolvePeriod(raw string) (string, error) {
	if raw == "" {
		return period.Key(time.Now()), nil
	}
	if _, err := period.ParseKey(raw); err != nil {
		return "", err
	}
	return raw, nil
}
