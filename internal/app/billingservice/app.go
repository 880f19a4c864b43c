// Package billingservice собирает приложение: подключения к хранилищу,
// кешу, брокеру и платежному процессору создаются один раз при старте
// и передаются компонентам как зависимости.
package billingservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/dailyscope/billing-service/internal/cache"
	"github.com/dailyscope/billing-service/internal/config"
	"github.com/dailyscope/billing-service/internal/migrations"
	"github.com/dailyscope/billing-service/internal/paymentgateway"
	"github.com/dailyscope/billing-service/internal/rabbitmq"
	entitlementservice "github.com/dailyscope/billing-service/internal/services/entitlement"
	paymentservice "github.com/dailyscope/billing-service/internal/services/payment"
	userservice "github.com/dailyscope/billing-service/internal/services/user"
	"github.com/dailyscope/billing-service/internal/storage/repository"
)

const (
	rabbitRetries    = 5
	rabbitRetryDelay = 2 * time.Second
	shutdownTimeout  = 15 * time.Second
)

// App инкапсулирует HTTP-сервер и долгоживущие соединения.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	cache    *cache.Cache
	amqpConn *amqp.Connection
}

// New создает приложение и все его зависимости.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.RabbitConnection, rabbitRetries, rabbitRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(amqpConn)
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewReconciliationPublisher(ch)

	gateway := paymentgateway.New(cfg.StripeSecretKey)

	users := userservice.New(db, cacheRedis, logger)
	payments := paymentservice.New(db, logger)
	entitlements := entitlementservice.New(db, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, users, payments, entitlements, gateway)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		cache:    cacheRedis,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и завершает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Warn("failed to close db connection", slog.Any("err", closeErr))
		}
		if closeErr := a.cache.Db.Close(); closeErr != nil {
			a.logger.Warn("failed to close redis connection", slog.Any("err", closeErr))
		}
		if closeErr := a.amqpConn.Close(); closeErr != nil {
			a.logger.Warn("failed to close amqp connection", slog.Any("err", closeErr))
		}
		return err
	}
}
