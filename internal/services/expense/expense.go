// Package expense содержит бизнес-логику учета расходов.
package expense

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/billing-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

const dateLayout = "2006-01-02"

// Repo описывает операции хранилища расходов.
type Repo interface {
	CreateExpense(ctx context.Context, expense models.Expense) (string, error)
	ListExpenses(ctx context.Context) ([]*models.Expense, error)
	RemoveExpense(ctx context.Context, id string) (int, error)
}

// Cache описывает операции кэша.
type Cache interface {
	Invalidate(key string) error
}

// Service реализует операции над расходами.
type Service struct {
	repo  Repo
	cache Cache
	log   *slog.Logger
}

// New создает сервис расходов.
func New(repo Repo, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// Create добавляет расход. Пустая дата означает сегодняшний день.
func (s *Service) Create(ctx context.Context, dummy models.DummyExpense) (string, error) {
	const op = "services.expense.Create"
	date := time.Now()
	if dummy.Date != "" {
		var err error
		date, err = time.Parse(dateLayout, dummy.Date)
		if err != nil {
			return "", fmt.Errorf("%s: invalid date: %w", op, err)
		}
	}
	id, err := s.repo.CreateExpense(ctx, models.Expense{
		Amount: dummy.Amount,
		Date:   date,
		Note:   dummy.Note,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateReports()
	return id, nil
}

// List возвращает все расходы.
func (s *Service) List(ctx context.Context) ([]*models.Expense, error) {
	const op = "services.expense.List"
	expenses, err := s.repo.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return expenses, nil
}

// Remove удаляет расход.
func (s *Service) Remove(ctx context.Context, id string) (int, error) {
	const op = "services.expense.Remove"
	counter, err := s.repo.RemoveExpense(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateReports()
	return counter, nil
}

func (s *Service) invalidateReports() {
	if err := s.cache.Invalidate("dashboard:report"); err != nil {
		s.log.Warn("failed to invalidate cache", sl.Err(err))
	}
}
