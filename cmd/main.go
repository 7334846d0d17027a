// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/N6q/EventManagementAPI/internal/auth"
	"github.com/N6q/EventManagementAPI/internal/config"
	"github.com/N6q/EventManagementAPI/internal/database"
	"github.com/N6q/EventManagementAPI/internal/handler"
	"github.com/N6q/EventManagementAPI/internal/logger"
	"github.com/N6q/EventManagementAPI/internal/repository"
	"github.com/N6q/EventManagementAPI/internal/service"
	"github.com/N6q/EventManagementAPI/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("database connect failed", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("database migrate failed", "error", err)
	}
	if err := database.Seed(db); err != nil {
		log.Fatal("database seed failed", "error", err)
	}
	log.Info("connected to postgres", "host", cfg.DBHost, "db", cfg.DBName)

	runner := repository.NewTxRunner(db)
	eventRepo := repository.NewEventRepository(db, log)
	attendeeRepo := repository.NewAttendeeRepository(db, log)

	weatherClient := weather.NewClient(cfg.WeatherBaseURL, log)
	tokens := auth.NewTokenService(
		cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience,
		time.Duration(cfg.JWTExpireMinutes)*time.Minute,
	)

	eventSvc := service.NewEventService(runner, eventRepo, attendeeRepo, log)
	attendeeSvc := service.NewAttendeeService(runner, eventRepo, attendeeRepo, log)
	reportSvc := service.NewReportService(eventRepo, weatherClient, log)

	validate := validator.New()
	router := handler.NewRouter(handler.Deps{
		Events:    handler.NewEventHandler(eventSvc, validate),
		Attendees: handler.NewAttendeeHandler(attendeeSvc, validate),
		Reports:   handler.NewReportHandler(reportSvc),
		Weather:   handler.NewWeatherHandler(weatherClient),
		Auth:      handler.NewAuthHandler(tokens),
		Tokens:    tokens,
		Log:       log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
