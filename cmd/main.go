package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsignal/riskgraph-backend/internal/app"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	a, err := app.New(log)
	if err != nil {
		log.Fatal("startup failed", "error", err)
	}

	watchCtx, stopWatcher := context.WithCancel(context.Background())
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		a.Watcher.Run(watchCtx)
	}()

	srv := &http.Server{
		Addr:    a.Config.HTTPAddr,
		Handler: a.Router,
	}
	go func() {
		log.Info("http server listening", "addr", a.Config.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	// Stop the loop first; cancellation is cooperative, so the in-flight
	// cycle finishes before the store connection is released.
	stopWatcher()
	<-watcherDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown failed", "error", err)
	}
	a.Close(shutdownCtx)
	log.Info("shutdown complete")
}
