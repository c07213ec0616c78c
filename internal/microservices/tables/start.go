package tables

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"

	"coffee-shop/internal/charts"
	"coffee-shop/internal/common/config"
	"coffee-shop/internal/common/db"
	"coffee-shop/internal/common/httpx"
	"coffee-shop/internal/common/logger"
	"coffee-shop/internal/common/mq"
	"coffee-shop/internal/microservices/tables/handlers"
	"coffee-shop/internal/microservices/tables/repository"
	"coffee-shop/internal/microservices/tables/service"
)

// Run starts the shop HTTP service and blocks until ctx is done.
func Run(ctx context.Context, cfg config.App, lg *logger.Logger) error {
	conn, err := db.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer conn.Close()
	lg.Info("db_connected", map[string]any{"host": cfg.Database.Host, "database": cfg.Database.Name})

	rmq, err := mq.Dial(cfg.Rabbit.URL(), cfg.Rabbit.UseTLS)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer rmq.Close()
	if err := rmq.DeclareAll(); err != nil {
		return err
	}
	lg.Info("rabbitmq_connected", map[string]any{"host": cfg.Rabbit.Host, "vhost": cfg.Rabbit.VHost})

	repo := repository.New(conn.Pool)
	if err := repo.TablesRepo.EnsureSchema(ctx); err != nil {
		return err
	}
	svc := service.New(*repo, rmq, lg)
	h := handlers.New(svc, lg)
	ch := charts.NewHandler(lg)

	health := handlers.Health(map[string]handlers.Check{
		"database": conn.Ping,
		"rabbitmq": func(context.Context) error { return rmq.Ping() },
	})
	mux := handlers.Router(h, lg, ch.Mount, func(r chi.Router) { r.Get("/health", health) })

	srv := httpx.New(fmt.Sprintf(":%d", cfg.HTTP.Port), mux)
	srv.ReadTimeout = cfg.HTTP.ReadTimeout
	srv.WriteTimeout = cfg.HTTP.WriteTimeout
	srv.ShutdownTimeout = cfg.HTTP.ShutdownTimeout

	lg.Info("http_listening", map[string]any{"port": cfg.HTTP.Port})
	return srv.Run(ctx)
}
