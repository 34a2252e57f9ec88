// Package main initializes and starts the FoodKeeper API server,
// setting up configuration, logging, the database, repositories,
// services and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/FoodKeeper/internal/config"
	"github.com/atinyakov/FoodKeeper/internal/db"
	"github.com/atinyakov/FoodKeeper/internal/logger"
	"github.com/atinyakov/FoodKeeper/internal/repository"
	"github.com/atinyakov/FoodKeeper/internal/server/handler/http"
	"github.com/atinyakov/FoodKeeper/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse config file, command-line and environment configuration.
	options, err := config.ParseServer(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgresDB, err := db.InitPostgres(ctx, options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	db.StartSoftDeleteCleaner(ctx, postgresDB,
		options.CleanupInterval.Duration,
		options.Retention.Duration,
		zapLogger,
	)

	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	foodRepo := repository.NewPostgresFoodRepository(postgresDB)
	noteRepo := repository.NewPostgresNoteRepository(postgresDB)

	authService := service.NewAuthService(authRepo, options.JWTSecret, options.TokenTTL.Duration)
	foodService := service.NewFoodService(foodRepo, options.SoonThresholdDays)
	noteService := service.NewNoteService(noteRepo, foodRepo)

	router := http.NewRouter(
		&http.AuthHandler{AuthService: authService},
		&http.FoodHandler{FoodService: foodService},
		&http.NoteHandler{NoteService: noteService},
		authService,
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("starting server",
		zap.String("addr", options.Address),
		zap.Bool("tls", options.TLSEnabled()),
	)
	if options.TLSEnabled() {
		err = server.ListenAndServeTLS(options.TLSCertFile, options.TLSKeyFile)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
