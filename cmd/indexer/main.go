package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/truegift/truegift-rag/internal/config"
	"github.com/truegift/truegift-rag/internal/logger"
	"github.com/truegift/truegift-rag/internal/repository"
	"github.com/truegift/truegift-rag/internal/service"
	"github.com/truegift/truegift-rag/internal/source"
	"github.com/truegift/truegift-rag/internal/storage"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "truegift-rag-indexer",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	authToken := flag.String("token", "", "Backend auth token (defaults to configured token)")
	maxPhotos := flag.Int("max-photos", 50, "Maximum number of photos to fetch")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	appLogger.WithField("max_photos", *maxPhotos).Info("Starting indexing run")

	// Initialize database registry
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	photoRepo := repository.NewPhotoRepository(db)

	vectorRepo, err := repository.NewVectorRepository(&repository.VectorConnectionConfig{
		Host:            cfg.Qdrant.Host,
		Port:            cfg.Qdrant.Port,
		Collection:      cfg.Qdrant.Collection,
		APIKey:          cfg.Qdrant.APIKey,
		UseTLS:          cfg.Qdrant.UseTLS,
		VectorDimension: cfg.Qdrant.Dimensions,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize vector repository")
	}
	defer vectorRepo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := vectorRepo.EnsureCollection(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure vector collection")
	}

	var archive *storage.PhotoArchive
	if cfg.Storage.Enabled {
		objectStorage, err := storage.NewStorage(&storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize storage")
		}
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
		}
		archive = storage.NewPhotoArchive(objectStorage, "photos")
	}

	backend := source.NewBackendClient(&source.BackendConfig{
		BaseURL:          cfg.Backend.BaseURL,
		APIPrefix:        cfg.Backend.APIPrefix,
		DefaultAuthToken: cfg.Backend.DefaultAuthToken,
		Timeout:          cfg.Backend.Timeout,
	})

	classifier := service.NewFallbackClassifier(
		service.NewServingClassifier(&service.ServingClassifierConfig{
			URL:     cfg.Classifier.PrimaryURL,
			Model:   cfg.Classifier.PrimaryModel,
			Timeout: cfg.Classifier.Timeout,
		}),
		service.NewServingClassifier(&service.ServingClassifierConfig{
			URL:     cfg.Classifier.GeneralURL,
			Model:   cfg.Classifier.GeneralModel,
			Timeout: cfg.Classifier.Timeout,
		}),
		cfg.Classifier.ConfidenceThreshold,
	)

	embedder := service.NewEmbeddingService(&service.EmbeddingConfig{
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		Dimensions: cfg.Embedding.Dimensions,
	})

	indexer := service.NewIndexerService(
		backend,
		service.NewHTTPImageFetcher(cfg.Backend.Timeout),
		classifier,
		embedder,
		vectorRepo,
		photoRepo,
		archive,
		appLogger,
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	report, err := indexer.IndexForUser(ctx, *authToken, *maxPhotos)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to index photos")
	}

	appLogger.WithFields(logger.Fields{
		"total":            report.Total,
		"user_photos":      report.UserPhotos,
		"friend_photos":    report.FriendPhotos,
		"indexed":          report.Indexed,
		"skipped":          report.Skipped,
		"no_food_detected": report.NoFood,
		"errors":           len(report.Errors),
	}).Info("Indexing run completed")
}
