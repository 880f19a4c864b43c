// Package billingservice предоставляет маршруты для основного приложения.
package billingservice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/dailyscope/billing-service/internal/http/handlers/payment/intentcreate"
	"github.com/dailyscope/billing-service/internal/http/handlers/payment/paymentlist"
	"github.com/dailyscope/billing-service/internal/http/handlers/payment/paymentread"
	"github.com/dailyscope/billing-service/internal/http/handlers/payment/paymentreport"
	"github.com/dailyscope/billing-service/internal/http/handlers/user/roleupdate"
	"github.com/dailyscope/billing-service/internal/http/handlers/user/usercreate"
	"github.com/dailyscope/billing-service/internal/http/handlers/user/userexpire"
	"github.com/dailyscope/billing-service/internal/http/handlers/user/userrole"
	"github.com/dailyscope/billing-service/internal/http/handlers/user/usersearch"
	"github.com/dailyscope/billing-service/internal/http/mware"
	"github.com/dailyscope/billing-service/internal/models"
	"github.com/dailyscope/billing-service/internal/paymentgateway"
	entitlementservice "github.com/dailyscope/billing-service/internal/services/entitlement"
	paymentservice "github.com/dailyscope/billing-service/internal/services/payment"
	userservice "github.com/dailyscope/billing-service/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, users *userservice.UserService, payments *paymentservice.PaymentService, entitlements *entitlementservice.Service, gateway *paymentgateway.Client) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(mware.RateLimitMiddleware(logger))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("dailyscope billing service is running"))
	})

	r.Post("/create-payment-intent", intentcreate.New(logger, gateway).ServeHTTP)

	r.Post("/users", usercreate.New(logger, users).ServeHTTP)
	r.Get("/users", usersearch.New(logger, users).ServeHTTP)
	r.Post("/users/expire-subscription", userexpire.New(logger, users).ServeHTTP)
	r.Get("/users/role", userrole.New(logger, users).ServeHTTP)
	r.Put("/users/{id}/make-admin", roleupdate.New(logger, users, models.RoleAdmin).ServeHTTP)
	r.Put("/users/{id}/remove-admin", roleupdate.New(logger, users, models.RoleUser).ServeHTTP)

	r.Get("/payments", paymentlist.New(logger, payments).ServeHTTP)
	r.Get("/payments/{id}", paymentread.New(logger, payments).ServeHTTP)
	r.Post("/payments", paymentreport.New(logger, entitlements).ServeHTTP)

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
