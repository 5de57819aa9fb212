// Package dashboard собирает сводный отчёт панели по абонентам и расходам.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/billing-dashboard/internal/billing"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

const reportCacheKey = "dashboard:report"
const reportCacheTTL = 5 * time.Minute

// SubscriberRepo описывает чтение абонентов из хранилища.
type SubscriberRepo interface {
	ListSubscribers(ctx context.Context) ([]*models.Subscriber, error)
}

// ExpenseRepo описывает чтение расходов из хранилища.
type ExpenseRepo interface {
	ListExpenses(ctx context.Context) ([]*models.Expense, error)
}

// Cache описывает операции кэша отчёта.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Service собирает и кэширует сводный отчёт.
type Service struct {
	subs     SubscriberRepo
	expenses ExpenseRepo
	cache    Cache
	log      *slog.Logger
}

// New создает сервис панели.
func New(subs SubscriberRepo, expenses ExpenseRepo, cache Cache, log *slog.Logger) *Service {
	return &Service{subs: subs, expenses: expenses, cache: cache, log: log}
}

// GetReport возвращает сводный отчёт, при необходимости ограниченный одним
// годом. Полный отчёт кэшируется, фильтрация по году выполняется поверх кэша.
func (s *Service) GetReport(ctx context.Context, year string) (*billing.Report, error) {
	const op = "services.dashboard.GetReport"

	var cached billing.Report
	found, err := s.cache.Get(reportCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read report cache", sl.Err(err))
	}
	if found {
		report := cached.FilterYear(year)
		return &report, nil
	}

	subs, err := s.subs.ListSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	expenses, err := s.expenses.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report := billing.BuildReport(subs, expenses, time.Now())
	if err := s.cache.Set(reportCacheKey, report, reportCacheTTL); err != nil {
		s.log.Warn("failed to write report cache", sl.Err(err))
	}

	filtered := report.FilterYear(year)
	return &filtered, nil
}
