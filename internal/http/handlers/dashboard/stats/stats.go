// Package stats реализует HTTP-обработчик сводного отчёта панели.
//
// Отчёт содержит счётчики абонентов, суммы выручки и расходов, помесячные
// ряды для графиков, разбивку по абонентам и историю скидок. Параметр year
// ограничивает помесячные ряды одним годом.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/billing-dashboard/internal/billing"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/response"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы сводного отчёта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики сводного отчёта.
type Service interface {
	GetReport(ctx context.Context, year string) (*billing.Report, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводный отчёт панели
// @Description Возвращает счётчики абонентов, выручку, расходы, помесячные ряды и историю скидок. Параметр year ограничивает ряды одним годом.
// @Tags Dashboard
// @Produce  json
// @Param year query string false "Год для фильтрации помесячных рядов (YYYY или All)"
// @Success 200 {object} map[string]any "Сводный отчёт"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	year := r.URL.Query().Get("year")

	report, err := h.service.GetReport(r.Context(), year)
	if err != nil {
		log.Error("failed to build report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build report"))
		return
	}

	log.Info("success to build report",
		slog.Int("total_subscribers", report.TotalSubscribers))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"report": report,
		"years":  report.Years(),
	}))
}
