// Package expenselist реализует HTTP-обработчик получения списка расходов.
package expenselist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/billing-dashboard/internal/http/response"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// Handler обрабатывает HTTP-запросы на получение списка расходов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка расходов.
type Service interface {
	List(ctx context.Context) ([]*models.Expense, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список расходов
// @Description Возвращает все расходы в хронологическом порядке.
// @Tags Expenses
// @Produce  json
// @Success 200 {object} map[string]any "Список расходов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /expenses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	expenses, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list expenses", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list expenses"))
		return
	}

	log.Info("success to list expenses", slog.Int("count", len(expenses)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"expenses": expenses,
		"count":    len(expenses),
	}))
}
