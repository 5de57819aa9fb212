package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// MockRepo реализует интерфейс Repo
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) ListSubscribers(ctx context.Context) ([]*models.Subscriber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscriber), args.Error(1)
}

// MockPublisher реализует интерфейс Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(notice models.ReminderNotice) error {
	args := m.Called(notice)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Sweep(t *testing.T) {
	now := time.Now()

	debtor := &models.Subscriber{
		ID:        "uuid-1",
		Name:      "Ahmed",
		Phone:     "9665550001",
		StartDate: now.AddDate(0, -2, 0),
		Payments:  map[string]float64{},
		Discounts: map[string]float64{},
	}
	paid := &models.Subscriber{
		ID:         "uuid-2",
		Name:       "Omar",
		Phone:      "9665550002",
		StartDate:  now.AddDate(0, -2, 0),
		PaidMonths: 2,
		Payments:   map[string]float64{},
		Discounts:  map[string]float64{},
	}
	broken := &models.Subscriber{
		ID:    "uuid-3",
		Name:  "Salem",
		Phone: "9665550003",
	}

	t.Run("напоминание публикуется только для должников", func(t *testing.T) {
		repo := new(MockRepo)
		publisher := new(MockPublisher)
		repo.On("ListSubscribers", mock.Anything).Return([]*models.Subscriber{debtor, paid, broken}, nil)
		publisher.On("Publish", mock.MatchedBy(func(notice models.ReminderNotice) bool {
			return notice.SubscriberID == "uuid-1" &&
				notice.Name == "Ahmed" &&
				notice.Phone == "9665550001" &&
				notice.TotalDue > 0 &&
				notice.WhatsAppLink != ""
		})).Return(nil).Once()

		svc := New(repo, publisher, time.Minute, newNoopLogger())
		svc.sweep(context.Background())

		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("ошибка публикации не прерывает обход", func(t *testing.T) {
		second := &models.Subscriber{
			ID:        "uuid-4",
			Name:      "Khalid",
			Phone:     "9665550004",
			StartDate: now.AddDate(0, -3, 0),
			Payments:  map[string]float64{},
			Discounts: map[string]float64{},
		}
		repo := new(MockRepo)
		publisher := new(MockPublisher)
		repo.On("ListSubscribers", mock.Anything).Return([]*models.Subscriber{debtor, second}, nil)
		publisher.On("Publish", mock.Anything).Return(errors.New("broker down")).Once()
		publisher.On("Publish", mock.Anything).Return(nil).Once()

		svc := New(repo, publisher, time.Minute, newNoopLogger())
		svc.sweep(context.Background())

		publisher.AssertNumberOfCalls(t, "Publish", 2)
	})

	t.Run("ошибка хранилища завершает обход без публикаций", func(t *testing.T) {
		repo := new(MockRepo)
		publisher := new(MockPublisher)
		repo.On("ListSubscribers", mock.Anything).Return(nil, errors.New("db error"))

		svc := New(repo, publisher, time.Minute, newNoopLogger())
		svc.sweep(context.Background())

		publisher.AssertNotCalled(t, "Publish")
	})
}

func TestService_RunStopsOnContextCancel(t *testing.T) {
	repo := new(MockRepo)
	publisher := new(MockPublisher)
	repo.On("ListSubscribers", mock.Anything).Return([]*models.Subscriber{}, nil)

	svc := New(repo, publisher, 10*time.Millisecond, newNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}

	// Первый обход выполняется сразу, дальше по тикеру.
	assert.GreaterOrEqual(t, len(repo.Calls), 2)
}
