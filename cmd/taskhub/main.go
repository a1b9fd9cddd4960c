package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskhub/internal/auth"
	"taskhub/internal/config"
	"taskhub/internal/server"
	"taskhub/internal/service"
	"taskhub/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var st store.Store
	var statsSource service.StatsSource
	switch cfg.StoreDriver {
	case "sqlite":
		db, err := store.OpenDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		gs := store.NewGormStore(db)
		st, statsSource = gs, gs
	default:
		ms := store.NewMemoryStore()
		st, statsSource = ms, ms
	}

	authSvc := auth.NewService(cfg.JWTSecret, cfg.SessionTTL, cfg.DemoCredentials)
	srv := server.New(st, authSvc)

	if cfg.StatsInterval > 0 {
		scheduler := service.NewScheduler(time.Local)
		statsSvc := service.NewStatsService(statsSource)
		if _, err := scheduler.ScheduleInterval(cfg.StatsInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := statsSvc.LogSnapshot(jobCtx); err != nil {
				log.Printf("stats: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule stats: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("[info] taskhub listening on %s (store=%s)", cfg.ListenAddr, cfg.StoreDriver)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
