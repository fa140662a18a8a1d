package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/calderonweb/espacio-api/internal/config"
	"github.com/calderonweb/espacio-api/internal/middleware"
	"github.com/calderonweb/espacio-api/internal/rest"
	"github.com/calderonweb/espacio-api/listings/application"
	"github.com/calderonweb/espacio-api/listings/persistence"
	"github.com/calderonweb/espacio-api/listings/storage"
	"github.com/calderonweb/espacio-api/shared/db"
	"github.com/calderonweb/espacio-api/shared/db/postgres"
	"github.com/calderonweb/espacio-api/shared/db/sqlite"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	shutdownTimeout = 5 * time.Second
	maxRequestBody  = 16 << 20 // 16 MiB
)

func main() {
	cfg := config.Load()

	// Initialize dependencies
	var database db.Database
	if cfg.DatabaseURL != "" {
		database = postgres.New(cfg.DatabaseURL)
	} else {
		database = sqlite.New(cfg.SQLitePath)
	}

	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	store, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("Failed to initialize image store")
	}

	repo := persistence.NewListingRepository(database.DB())
	service := application.NewListingService(repo, store)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.MaxMultipartMemory = maxRequestBody
	router.Use(cors.Default())
	router.Use(middleware.LimitRequestBody(maxRequestBody))
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))

	handler := rest.NewDepartmentsHandler(service, store, cfg.UploadDir)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
