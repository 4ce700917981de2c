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

	"github.com/gin-gonic/gin"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"moviehub/internal/config"
	"moviehub/internal/database"
	"moviehub/internal/handler"
	"moviehub/internal/logger"
	"moviehub/internal/metadata/omdb"
	"moviehub/internal/repository"
	"moviehub/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, cleanup := logger.New(cfg.LogLevel, cfg.LogJSON)
	defer cleanup()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("database connect", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	movieRepo := repository.NewMovieRepository(db)

	fetcher := omdb.NewClient(cfg.OMDbAPIURL, cfg.OMDbAPIKey)
	userSvc := service.NewUserService(userRepo)
	movieSvc := service.NewMovieService(movieRepo, userRepo, fetcher)

	userH := handler.NewUserHandler(userSvc, movieSvc, log)
	movieH := handler.NewMovieHandler(movieSvc, userSvc, cfg.FetchEnabled(), log)

	router := handler.NewRouter(log, cfg.SessionSecret, userH, movieH)

	addr := fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting",
			zap.String("addr", addr),
			zap.String("env", cfg.GoEnv),
			zap.Bool("metadata_fetch", cfg.FetchEnabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped")
}
