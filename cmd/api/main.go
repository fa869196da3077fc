package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/truegift/truegift-rag/internal/api"
	"github.com/truegift/truegift-rag/internal/catalog"
	"github.com/truegift/truegift-rag/internal/config"
	"github.com/truegift/truegift-rag/internal/friends"
	"github.com/truegift/truegift-rag/internal/logger"
	"github.com/truegift/truegift-rag/internal/repository"
	"github.com/truegift/truegift-rag/internal/service"
	"github.com/truegift/truegift-rag/internal/source"
	"github.com/truegift/truegift-rag/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg := logger.NewFromEnv(logger.LoadFromEnv())
	logger.SetDefaultLogger(logg)

	// Initialize database registry
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		logg.WithError(err).Fatal("Failed to initialize database")
	}
	photoRepo := repository.NewPhotoRepository(db)

	// Initialize vector store
	vectorRepo, err := repository.NewVectorRepository(&repository.VectorConnectionConfig{
		Host:            cfg.Qdrant.Host,
		Port:            cfg.Qdrant.Port,
		Collection:      cfg.Qdrant.Collection,
		APIKey:          cfg.Qdrant.APIKey,
		UseTLS:          cfg.Qdrant.UseTLS,
		VectorDimension: cfg.Qdrant.Dimensions,
	})
	if err != nil {
		logg.WithError(err).Fatal("Failed to initialize vector repository")
	}
	defer vectorRepo.Close()

	ctx := context.Background()
	if err := vectorRepo.EnsureCollection(ctx); err != nil {
		logg.WithError(err).Fatal("Failed to ensure vector collection")
	}

	// Optional photo archive
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
			logg.WithError(err).Fatal("Failed to initialize storage")
		}
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			logg.WithError(err).Fatal("Failed to ensure storage bucket")
		}
		archive = storage.NewPhotoArchive(objectStorage, "photos")
	}

	// Collaborator clients
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

	llm := service.NewLLMService(&service.LLMConfig{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}, logg)

	// Domain services
	relation := friends.NewStaticRelation(cfg.Friends.Pairs)

	indexer := service.NewIndexerService(
		backend,
		service.NewHTTPImageFetcher(cfg.Backend.Timeout),
		classifier,
		embedder,
		vectorRepo,
		photoRepo,
		archive,
		logg,
	)

	retrieval := service.NewRetrievalService(vectorRepo, embedder, relation, cfg.Suggestion.Oversample, logg)
	enricher := service.NewEnrichmentService(catalog.NewFileLoader(cfg.Catalog.Path), logg)
	suggest := service.NewSuggestService(retrieval, enricher, llm, cfg.Suggestion.TopK, logg)

	router := api.SetupRouter(indexer, suggest, llm, photoRepo, cfg, logg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logg.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.WithError(err).Fatal("Server forced to shutdown")
	}

	logg.Info("Server exited")
}
