package expense

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// MockRepo реализует интерфейс Repo
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) CreateExpense(ctx context.Context, expense models.Expense) (string, error) {
	args := m.Called(ctx, expense)
	return args.String(0), args.Error(1)
}

func (m *MockRepo) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Expense), args.Error(1)
}

func (m *MockRepo) RemoveExpense(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// MockCache реализует интерфейс Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newTestService(repo *MockRepo, cache *MockCache) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(repo, cache, logger)
}

func TestService_Create(t *testing.T) {
	t.Run("явная дата и сброс кэша отчёта", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		repo.On("CreateExpense", mock.Anything, models.Expense{
			Amount: 120.50,
			Date:   time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
			Note:   "router replacement",
		}).Return("uuid-1", nil)
		cache.On("Invalidate", "dashboard:report").Return(nil)

		svc := newTestService(repo, cache)
		id, err := svc.Create(context.Background(), models.DummyExpense{
			Amount: 120.50,
			Date:   "2025-02-15",
			Note:   "router replacement",
		})

		require.NoError(t, err)
		assert.Equal(t, "uuid-1", id)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("пустая дата означает сегодня", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		repo.On("CreateExpense", mock.Anything, mock.MatchedBy(func(exp models.Expense) bool {
			return exp.Amount == 40 && time.Since(exp.Date) < time.Minute
		})).Return("uuid-2", nil)
		cache.On("Invalidate", "dashboard:report").Return(nil)

		svc := newTestService(repo, cache)
		_, err := svc.Create(context.Background(), models.DummyExpense{Amount: 40})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("некорректная дата", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)

		svc := newTestService(repo, cache)
		_, err := svc.Create(context.Background(), models.DummyExpense{
			Amount: 40,
			Date:   "15.02.2025",
		})

		require.Error(t, err)
		repo.AssertNotCalled(t, "CreateExpense")
	})

	t.Run("ошибка кэша не прерывает создание", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		repo.On("CreateExpense", mock.Anything, mock.Anything).Return("uuid-3", nil)
		cache.On("Invalidate", "dashboard:report").Return(errors.New("redis down"))

		svc := newTestService(repo, cache)
		id, err := svc.Create(context.Background(), models.DummyExpense{Amount: 40, Date: "2025-02-15"})

		require.NoError(t, err)
		assert.Equal(t, "uuid-3", id)
	})
}

func TestService_List(t *testing.T) {
	repo := new(MockRepo)
	cache := new(MockCache)
	repo.On("ListExpenses", mock.Anything).Return([]*models.Expense{
		{ID: "uuid-1", Amount: 120.50},
		{ID: "uuid-2", Amount: 40},
	}, nil)

	svc := newTestService(repo, cache)
	list, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestService_Remove(t *testing.T) {
	t.Run("успешное удаление сбрасывает кэш", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		repo.On("RemoveExpense", mock.Anything, "uuid-1").Return(1, nil)
		cache.On("Invalidate", "dashboard:report").Return(nil)

		svc := newTestService(repo, cache)
		count, err := svc.Remove(context.Background(), "uuid-1")

		require.NoError(t, err)
		assert.Equal(t, 1, count)
		cache.AssertExpectations(t)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		repo.On("RemoveExpense", mock.Anything, "uuid-1").Return(0, errors.New("db error"))

		svc := newTestService(repo, cache)
		_, err := svc.Remove(context.Background(), "uuid-1")

		require.Error(t, err)
		cache.AssertNotCalled(t, "Invalidate")
	})
}
