package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agamariel/shopmart/internal/config"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogLevel)

	// Цены и веса отдаются в JSON числами, а не строками
	decimal.MarshalJSONWithoutQuotes = true

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Инициализация приложения
	app, err := NewApp(rootCtx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}

	// Запуск сервера в отдельной горутине
	go func() {
		if err := app.Start(); err != nil {
			log.WithError(err).Error("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	rootCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("shutdown failed")
	}
}

func setupLogger(level string) {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown log level, using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
