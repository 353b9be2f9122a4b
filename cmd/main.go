// Package main implements a REST service for tracking recurring subscriptions.
//
//	@title			Subscription Tracker API
//	@version		1.0
//	@description	API for CRUD operations on recurring payment subscriptions.
//	@host			localhost:4000
//	@BasePath		/
//	@schemes		http
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subscription-tracker/internal/config"
	"subscription-tracker/internal/handler"
	"subscription-tracker/internal/logging"
	"subscription-tracker/internal/repository"
)

func main() {
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		bootLog := logging.NewLogger("subscription-api", "info")
		bootLog.Fatal().Err(err).Msg("Не удалось загрузить конфигурацию")
	}

	log := logging.NewLogger("subscription-api", cfg.Log.Level)
	if !cfg.EnvFileLoaded {
		log.Debug().Msg("Файл .env не найден, используем config.yaml и переменные окружения")
	}

	var store repository.Store
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("Используется хранилище в памяти, данные не сохраняются")
		store = repository.NewMemoryRepository()
	default:
		db, err := repository.NewPostgresDB(cfg.DSN())
		if err != nil {
			log.Fatal().Err(err).Msg("Ошибка инициализации БД")
		}
		defer db.Close()
		log.Info().Str("database", cfg.DatabaseName()).Msg("Успешное подключение к PostgreSQL")

		if err := repository.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Ошибка применения миграций")
		}
		store = repository.NewSubscriptionRepository(db)
	}

	subHandler := handler.NewHandler(store)
	router := handler.NewRouter(subHandler, log, cfg.CORS.AllowedOrigins, "docs/")

	addr := ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msgf("API: http://localhost%s%s", addr, handler.BasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Ошибка запуска сервера")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Остановка сервера...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Сервер остановлен принудительно")
	}
}
