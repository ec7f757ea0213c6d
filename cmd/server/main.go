package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/probagno/backend/config"
	httpDelivery "github.com/probagno/backend/internal/delivery/http"
	"github.com/probagno/backend/internal/domain"
	"github.com/probagno/backend/internal/infrastructure/cache"
	"github.com/probagno/backend/internal/infrastructure/remote"
	"github.com/probagno/backend/internal/infrastructure/store"
	"github.com/probagno/backend/internal/usecase"
)

func main() {
	logger := newLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}

	if cfg.Server.Environment == "development" {
		logger.Logger.SetLevel(logrus.DebugLevel)
	}

	logger.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"catalog":     cfg.Catalog.Source,
		"cache_ttl":   cfg.Cache.TTL.String(),
	}).Info("starting probagno backend")

	// Catalog repository: local SQLite file or a remote instance of this API
	var catalog domain.CatalogRepository
	switch cfg.Catalog.Source {
	case "remote":
		catalog = remote.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, logger)
		logger.WithField("base_url", cfg.Catalog.BaseURL).Info("using remote catalog")
	default:
		st, err := store.Open(cfg.Catalog.Path)
		if err != nil {
			logger.WithError(err).Fatal("failed to open catalog database")
		}
		defer st.Close()
		catalog = st
		logger.WithField("path", cfg.Catalog.Path).Info("using local catalog database")
	}

	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Stop()

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(
		catalog,
		memoryCache,
		logger,
		usecase.CatalogServiceConfig{CacheTTL: cfg.Cache.TTL},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogService, logger)

	limiter := httpDelivery.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	defer limiter.Stop()

	router := httpDelivery.SetupRouter(cfg, handler, logger, limiter)

	if cfg.Admin.Token == "" {
		logger.Warn("admin token not configured, catalog writes are disabled")
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.WithField("addr", addr).Info("server listening")

	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("failed to start server")
	}
}

func newLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return logger.WithField("service", "probagno-backend")
}
