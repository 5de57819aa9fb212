// Package reminder реализует HTTP-обработчик получения напоминания об оплате.
//
// Обработчик возвращает готовый текст напоминания и ссылку wa.me, по которой
// оператор отправляет сообщение абоненту в WhatsApp.
package reminder

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/billing-dashboard/internal/http/response"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
	subscriberservice "github.com/magabrotheeeer/billing-dashboard/internal/services/subscriber"
)

// Handler обрабатывает HTTP-запросы на получение напоминания.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики напоминаний.
type Service interface {
	Reminder(ctx context.Context, id string) (*models.ReminderNotice, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Напоминание об оплате
// @Description Возвращает текст напоминания и ссылку WhatsApp для абонента с задолженностью.
// @Tags Subscribers
// @Produce  json
// @Param id path string true "ID абонента"
// @Success 200 {object} map[string]any "Напоминание"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "У абонента нет задолженности"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscribers/{id}/reminder [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriber.reminder"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing id url param")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	notice, err := h.service.Reminder(r.Context(), id)
	if err != nil {
		if errors.Is(err, subscriberservice.ErrNotDue) {
			log.Info("subscriber has no outstanding periods", slog.String("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("subscriber has no outstanding periods"))
			return
		}
		log.Error("failed to compose reminder", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compose reminder"))
		return
	}

	log.Info("success to compose reminder", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(notice))
}
