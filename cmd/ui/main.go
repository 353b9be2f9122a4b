// Command ui serves the subscription form and list page on top of the API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subscription-tracker/internal/client"
	"subscription-tracker/internal/config"
	"subscription-tracker/internal/handler"
	"subscription-tracker/internal/logging"
	"subscription-tracker/internal/ui"
)

func main() {
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		bootLog := logging.NewLogger("subscription-ui", "info")
		bootLog.Fatal().Err(err).Msg("Не удалось загрузить конфигурацию")
	}

	log := logging.NewLogger("subscription-ui", cfg.Log.Level)
	if !cfg.EnvFileLoaded {
		log.Debug().Msg("Файл .env не найден, используем config.yaml и переменные окружения")
	}

	ctrl := ui.NewController(client.NewClient(cfg.UI.APIURL), log)
	ctrl.Load(context.Background())

	page := ui.NewPage(ctrl, log)

	addr := ":" + cfg.UI.Port
	server := &http.Server{
		Addr:        addr,
		Handler:     handler.LogRequest(log)(page.Router()),
		ReadTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("api", cfg.UI.APIURL).Msgf("UI: http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Ошибка запуска сервера")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Сервер остановлен принудительно")
	}
}
