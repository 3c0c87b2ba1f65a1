package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-reminders/internal/api"
	"user-reminders/internal/bot"
	"user-reminders/internal/config"
	"user-reminders/internal/events"
	"user-reminders/internal/logger"
	"user-reminders/internal/repository"
	"user-reminders/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Setup(cfg.LogLevel)

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	store := repository.NewReminderStore(db)
	bus := events.NewBus(log)

	reminderSvc := service.NewReminderService(store, userRepo, bus, log)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, reminderSvc, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}
	telegramBot.SubscribeDueEvents(bus)

	scheduler := service.NewSchedulerService(time.Local, reminderSvc, bus, log)
	if err := scheduler.Start(cfg.CheckInterval); err != nil {
		log.Error("start scheduler", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewServer(reminderSvc, log),
	}
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown", "error", err)
		}
	}()

	log.Info("reminder service started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
