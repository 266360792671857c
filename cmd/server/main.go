package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medbase/config"
	"medbase/internal/database"
	"medbase/internal/router"
	"medbase/pkg/filestore"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Server.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalw("migration failed", "error", err)
	}
	if err := database.Seed(db, log); err != nil {
		log.Fatalw("seeding failed", "error", err)
	}
	if err := database.SeedAdmin(db, &cfg.Admin, log); err != nil {
		log.Fatalw("admin seeding failed", "error", err)
	}

	files := filestore.New(cfg.Uploads.Root, log)
	if n := files.SweepTemp(cfg.Uploads.TempMaxAge); n > 0 {
		log.Infow("removed abandoned staging directories", "count", n)
	}

	r := router.Setup(cfg, db, files, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}
