package reminder

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/billing-dashboard/internal/models"
	subscriberservice "github.com/magabrotheeeer/billing-dashboard/internal/services/subscriber"
)

// MockService реализует интерфейс reminder.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Reminder(ctx context.Context, id string) (*models.ReminderNotice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReminderNotice), args.Error(1)
}

func TestReminderHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "напоминание для должника",
			id:   "uuid-1",
			setupMock: func(m *MockService) {
				m.On("Reminder", mock.Anything, "uuid-1").Return(&models.ReminderNotice{
					Name:         "Ahmed",
					Phone:        "9665550001",
					TotalDue:     30,
					Message:      "Your WiFi bill expired in 10-Feb-25. Please pay 30 riyal as soon as possible.",
					WhatsAppLink: "https://wa.me/9665550001?text=...",
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"whatsapp_link":"https://wa.me/9665550001?text=..."`,
		},
		{
			name:           "пустой id",
			id:             "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid id"}`,
		},
		{
			name: "нет задолженности",
			id:   "uuid-2",
			setupMock: func(m *MockService) {
				m.On("Reminder", mock.Anything, "uuid-2").Return(nil, subscriberservice.ErrNotDue)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `subscriber has no outstanding periods`,
		},
		{
			name: "ошибка сервиса",
			id:   "uuid-3",
			setupMock: func(m *MockService) {
				m.On("Reminder", mock.Anything, "uuid-3").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not compose reminder`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/subscribers/"+tt.id+"/reminder", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
