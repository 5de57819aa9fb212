// Package discount реализует HTTP-обработчик назначения скидки абоненту за период.
//
// Скидка уменьшает плату периода при расчете задолженности; повторное
// назначение за тот же период перезаписывает прежнюю скидку.
package discount

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/billing-dashboard/internal/http/response"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/billing-dashboard/internal/models"
)

// Handler обрабатывает HTTP-запросы на назначение скидки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики назначения скидки.
type Service interface {
	GrantDiscount(ctx context.Context, id string, entry models.DummyLedgerEntry) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Назначить скидку
// @Description Записывает размер скидки абонента за период. Пустой период означает текущий месяц.
// @Tags Subscribers
// @Accept  json
// @Produce  json
// @Param id path string true "ID абонента"
// @Param request body models.DummyLedgerEntry true "Период и размер скидки"
// @Success 200 {object} map[string]any "Скидка записана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или период"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscribers/{id}/discount [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriber.discount"
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

	var req models.DummyLedgerEntry
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	res, err := h.service.GrantDiscount(r.Context(), id, req)
	if err != nil {
		log.Error("failed to grant discount", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not grant discount"))
		return
	}

	log.Info("success to grant discount", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated_count": res,
	}))
}
