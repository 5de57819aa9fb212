// Package billingdashboard собирает HTTP-приложение панели: маршруты,
// middleware и жизненный цикл сервера.
package billingdashboard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/dashboard/stats"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/expense/expensecreate"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/expense/expenselist"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/expense/expenseremove"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/health"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/subscriber/create"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/subscriber/discount"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/subscriber/list"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/subscriber/payment"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/subscriber/reminder"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/subscriber/remove"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/handlers/subscriber/update"
	"github.com/magabrotheeeer/billing-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/billing-dashboard/internal/services/auth"
	dashboardservice "github.com/magabrotheeeer/billing-dashboard/internal/services/dashboard"
	expenseservice "github.com/magabrotheeeer/billing-dashboard/internal/services/expense"
	subscriberservice "github.com/magabrotheeeer/billing-dashboard/internal/services/subscriber"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	maker jwt.Maker,
	authService *authservice.Service,
	subscriberService *subscriberservice.Service,
	expenseService *expenseservice.Service,
	dashboardService *dashboardservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/subscribers", create.New(logger, subscriberService).ServeHTTP)
			r.Get("/subscribers", list.New(logger, subscriberService).ServeHTTP)
			r.Put("/subscribers/{id}", update.New(logger, subscriberService).ServeHTTP)
			r.Delete("/subscribers/{id}", remove.New(logger, subscriberService).ServeHTTP)
			r.Put("/subscribers/{id}/payment", payment.New(logger, subscriberService).ServeHTTP)
			r.Put("/subscribers/{id}/discount", discount.New(logger, subscriberService).ServeHTTP)
			r.Get("/subscribers/{id}/reminder", reminder.New(logger, subscriberService).ServeHTTP)
			r.Post("/expenses", expensecreate.New(logger, expenseService).ServeHTTP)
			r.Get("/expenses", expenselist.New(logger, expenseService).ServeHTTP)
			r.Delete("/expenses/{id}", expenseremove.New(logger, expenseService).ServeHTTP)
			r.Get("/dashboard", stats.New(logger, dashboardService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
