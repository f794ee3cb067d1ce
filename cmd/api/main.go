package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/quran-reader-api/internal/cache"
	"github.com/quran-reader-api/internal/config"
	"github.com/quran-reader-api/internal/handlers"
	"github.com/quran-reader-api/internal/logging"
	"github.com/quran-reader-api/internal/matcher"
	"github.com/quran-reader-api/internal/middleware"
	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/recitation"
	"github.com/quran-reader-api/internal/repository/postgres"
	"github.com/quran-reader-api/internal/repository/sqlstore"
	"github.com/quran-reader-api/internal/services"
	"github.com/quran-reader-api/internal/upstream"
	"github.com/quran-reader-api/pkg/embeddings"
	"github.com/quran-reader-api/pkg/store/db"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	// Get configuration
	cfg := config.GetConfig()
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.ErrorHandler

	// Middleware
	e.Use(middleware.RequestLogger(logging.Info))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSMiddleware())

	// Initialize storage
	ctx := context.Background()
	if err := db.InitDatabase(ctx, cfg.DBDriver, cfg.DatabaseURL); err != nil {
		logging.Error("failed to initialize database", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	conn := db.GetDatabase()
	if err := sqlstore.Migrate(ctx, conn); err != nil {
		logging.Error("failed to migrate database", "err", err)
		os.Exit(1)
	}
	logging.Info("database initialization complete", "driver", cfg.DBDriver)

	// Upstream clients
	opts := upstream.Options{Timeout: cfg.UpstreamTimeout, RPS: cfg.UpstreamRPS}
	quranClient := upstream.NewQuranClient(cfg.QuranAPIURL, opts)
	tafsirClient := upstream.NewTafsirClient(cfg.TafsirAPIURL, opts)
	hadithClient := upstream.NewHadithClient(cfg.HadithAPIURL, opts)

	// Corpus and matching
	corpus := services.NewCorpus(cache.New[models.Chapter](cfg.CacheTTL, nil), quranClient, cfg.PreloadEdition)
	locator := services.NewLocator(corpus, matcher.VerseScorer{}, services.LocatorConfig{
		LocalThreshold:  cfg.LocalThreshold,
		GlobalThreshold: cfg.GlobalThreshold,
		Cooldown:        cfg.JumpCooldown,
		MinGlobalWords:  services.DefaultLocatorConfig().MinGlobalWords,
		MaxCandidates:   services.DefaultLocatorConfig().MaxCandidates,
	}, nil)
	ayahSearchSvc := services.NewAyahSearchService(corpus, matcher.VerseScorer{}, cfg.SearchThreshold)

	preloadCtx, cancelPreload := context.WithCancel(ctx)
	defer cancelPreload()
	if cfg.PreloadEnabled {
		go services.NewPreloader(corpus, cfg.PreloadPause).Run(preloadCtx)
	}

	// Reader services
	quranSvc := services.NewQuranService(quranClient, tafsirClient, strings.Split(cfg.DefaultEditions, ","), cfg.DefaultTafsirID, cfg.CacheTTL, nil)
	hadithSvc := services.NewHadithService(hadithClient, cfg.CacheTTL, nil)
	librarySvc := services.NewLibraryService(services.LibraryRepositories{
		Users:       sqlstore.NewUserRepository(conn),
		Bookmarks:   sqlstore.NewBookmarkRepository(conn),
		Positions:   sqlstore.NewReadingPositionRepository(conn),
		Preferences: sqlstore.NewPreferencesRepository(conn),
		Books:       sqlstore.NewBookRepository(conn),
	}, models.Preferences{
		Reciter:            "ar.alafasy",
		TranslationEdition: cfg.MeaningEdition,
		Theme:              "light",
		FontSize:           24,
	}, nil)

	// Meaning search needs pgvector and an embedding provider
	var meaningSearchSvc *services.MeaningSearchService
	var embeddingsSvc *embeddings.Service
	if cfg.DBDriver == db.DriverPostgres && cfg.EmbeddingProvider != "none" {
		var err error
		embeddingsSvc, err = embeddings.New(ctx, embeddings.Config{
			Provider:     cfg.EmbeddingProvider,
			ServiceURL:   cfg.EmbeddingServiceURL,
			Dimensions:   cfg.EmbeddingDimensions,
			GCPProjectID: cfg.GCPProjectID,
			GCPLocation:  cfg.GCPLocation,
			VertexModel:  cfg.VertexModel,
		})
		if err != nil {
			logging.Error("failed to initialize embeddings service", "provider", cfg.EmbeddingProvider, "err", err)
			os.Exit(1)
		}
		if err := postgres.EnsureSchema(ctx, conn, cfg.EmbeddingDimensions); err != nil {
			logging.Error("failed to prepare verse embeddings table", "err", err)
			os.Exit(1)
		}
		meaningSearchSvc = services.NewMeaningSearchService(postgres.NewMeaningRepository(conn), embeddingsSvc, cfg.MeaningEdition)
		logging.Info("meaning search enabled", "provider", cfg.EmbeddingProvider, "edition", cfg.MeaningEdition)
	} else {
		logging.Info("meaning search disabled", "driver", cfg.DBDriver, "provider", cfg.EmbeddingProvider)
	}

	// Create API group with prefix
	api := e.Group(cfg.APIPrefix)

	// Register handlers
	handlers.NewHealthHandler(conn, corpus, locator).RegisterRoutes(api)
	handlers.NewSearchHandler(ayahSearchSvc, locator, meaningSearchSvc).RegisterRoutes(api)
	handlers.NewQuranHandler(quranSvc).RegisterRoutes(api)
	handlers.NewHadithHandler(hadithSvc).RegisterRoutes(api)
	handlers.NewLibraryHandler(librarySvc).RegisterRoutes(api)
	handlers.NewReciteHandler(locator, corpus, recitation.DefaultConfig(), cfg.CORSOrigins).RegisterRoutes(api)

	// Root health check
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"name":    cfg.APITitle,
			"version": cfg.APIVersion,
			"status":  "running",
		})
	})

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logging.Info("starting server", "name", cfg.APITitle, "version", cfg.APIVersion, "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logging.Error("server stopped", "err", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down server")
	cancelPreload()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error("error shutting down server", "err", err)
	}

	if err := db.CloseDatabase(); err != nil {
		logging.Error("error closing database", "err", err)
	}

	// Close the Vertex AI client if used
	if embeddingsSvc != nil {
		if err := embeddingsSvc.Close(); err != nil {
			logging.Error("error closing embeddings service", "err", err)
		}
	}

	logging.Info("server stopped")
}
