// Package main запускает киоск-агент программы лояльности автомойки.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/washpoint-kiosk/internal/config"
	"github.com/mmeshcher/washpoint-kiosk/internal/handler"
	"github.com/mmeshcher/washpoint-kiosk/internal/middleware"
	"github.com/mmeshcher/washpoint-kiosk/internal/notify"
	"github.com/mmeshcher/washpoint-kiosk/internal/rewards"
	"github.com/mmeshcher/washpoint-kiosk/internal/service"
	"github.com/mmeshcher/washpoint-kiosk/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	fileStore, err := store.NewFileStore(cfg.StoreDir, logger)
	if err != nil {
		sugar.Fatalw("store initialization error", "error", err.Error())
	}

	backend := rewards.NewClient(cfg.BackendAddress, cfg.RequestTimeout)
	notifications := notify.NewBuffer(50)

	svc := service.NewService(fileStore, backend, notifications, logger, cfg.KioskPhone)

	session := middleware.NewSessionMiddleware(cfg.SessionSecret)
	h := handler.NewHandler(svc, notifications, logger, session, cfg.StaffSecret)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск фонового вытеснения просроченных наград
	g.Go(func() error {
		svc.StartExpirySweeps(ctx, cfg.SweepInterval)
		return nil
	})

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting washpoint kiosk agent", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
