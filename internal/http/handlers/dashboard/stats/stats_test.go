package stats

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/billing-dashboard/internal/billing"
)

// MockService реализует интерфейс stats.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GetReport(ctx context.Context, year string) (*billing.Report, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Report), args.Error(1)
}

func TestStatsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "отчёт без фильтра",
			url:  "/dashboard",
			setupMock: func(m *MockService) {
				m.On("GetReport", mock.Anything, "").Return(&billing.Report{
					TotalSubscribers: 2,
					TotalRevenue:     60,
					MonthlyRevenue: []billing.RevenuePoint{
						{Period: "2025-01", Amount: 60},
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"total_subscribers":2`,
		},
		{
			name: "фильтр по году передается в сервис",
			url:  "/dashboard?year=2025",
			setupMock: func(m *MockService) {
				m.On("GetReport", mock.Anything, "2025").Return(&billing.Report{
					TotalSubscribers: 1,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"total_subscribers":1`,
		},
		{
			name: "ошибка сервиса",
			url:  "/dashboard",
			setupMock: func(m *MockService) {
				m.On("GetReport", mock.Anything, "").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not build report`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
