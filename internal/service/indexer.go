package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"time"

	_ "golang.org/x/image/webp"

	"github.com/truegift/truegift-rag/internal/domain"
	"github.com/truegift/truegift-rag/internal/logger"
	"github.com/truegift/truegift-rag/internal/repository"
	"github.com/truegift/truegift-rag/internal/source"
	"github.com/truegift/truegift-rag/internal/storage"
)

// DocumentStore is the slice of the vector repository the indexer needs.
type DocumentStore interface {
	Exists(ctx context.Context, photoID string) (bool, error)
	Upsert(ctx context.Context, photoID string, vector []float32, caption string, payload *repository.PhotoPayload) error
}

// PhotoClassifier runs the classifier fallback chain on one image.
type PhotoClassifier interface {
	Classify(ctx context.Context, image []byte) (domain.Classification, error)
}

// IndexerService runs the photo indexing pipeline: fetch, classify, caption,
// embed, upsert. One photo's failure never aborts the batch.
type IndexerService struct {
	photos     source.PhotoSource
	fetcher    ImageFetcher
	classifier PhotoClassifier
	embedder   Embedder
	store      DocumentStore
	photoRepo  *repository.PhotoRepository
	archive    *storage.PhotoArchive
	logger     *logger.Logger
}

// NewIndexerService creates an IndexerService. photoRepo and archive are
// optional; when nil the registry row and the archived copy are skipped.
func NewIndexerService(
	photos source.PhotoSource,
	fetcher ImageFetcher,
	classifier PhotoClassifier,
	embedder Embedder,
	store DocumentStore,
	photoRepo *repository.PhotoRepository,
	archive *storage.PhotoArchive,
	log *logger.Logger,
) *IndexerService {
	return &IndexerService{
		photos:     photos,
		fetcher:    fetcher,
		classifier: classifier,
		embedder:   embedder,
		store:      store,
		photoRepo:  photoRepo,
		archive:    archive,
		logger:     log,
	}
}

func (s *IndexerService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// IndexForUser fetches the latest photo batch for the authenticated user and
// indexes it. Only the batch fetch itself is a hard error; everything after
// is reported per photo.
func (s *IndexerService) IndexForUser(ctx context.Context, authToken string, maxCount int) (*domain.IndexReport, error) {
	batch, err := s.photos.FetchBatch(ctx, authToken, maxCount)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch photo batch: %w", err)
	}

	report := s.IndexAll(ctx, batch.All())
	report.UserPhotos = len(batch.OwnPhotos)
	report.FriendPhotos = len(batch.FriendPhotos)
	return report, nil
}

// IndexAll indexes every photo concurrently, one task per photo, and joins
// on all of them. Result order follows input order.
func (s *IndexerService) IndexAll(ctx context.Context, photos []domain.Photo) *domain.IndexReport {
	start := time.Now()

	results := make([]domain.PhotoResult, len(photos))
	var wg sync.WaitGroup
	for i := range photos {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.processPhoto(ctx, &photos[i])
		}(i)
	}
	wg.Wait()

	report := &domain.IndexReport{
		Status:  "done",
		Details: results,
	}
	report.Tally()

	s.log(ctx).WithFields(logger.Fields{
		"total":            report.Total,
		"indexed":          report.Indexed,
		"skipped":          report.Skipped,
		"no_food_detected": report.NoFood,
		"errors":           len(report.Errors),
		"duration":         time.Since(start).String(),
	}).Info("Indexing completed")

	return report
}

// processPhoto runs the full pipeline for a single photo. Every failure is
// folded into the returned result, never propagated.
func (s *IndexerService) processPhoto(ctx context.Context, photo *domain.Photo) domain.PhotoResult {
	result := domain.PhotoResult{PhotoID: photo.ID}

	exists, err := s.store.Exists(ctx, photo.ID)
	if err != nil {
		// Upsert converges on the same point ID, so index anyway.
		s.log(ctx).WithField(logger.FieldPhotoID, photo.ID).
			WithError(err).Warn("Existence check failed, indexing anyway")
	}
	if exists {
		result.Status = domain.PhotoStatusSkipped
		return result
	}

	imageData, err := s.fetcher.Fetch(ctx, photo.URL)
	if err != nil {
		result.Status = domain.PhotoStatusError
		result.Error = err.Error()
		return result
	}

	cls, err := s.classifier.Classify(ctx, imageData)
	if err != nil {
		result.Status = domain.PhotoStatusError
		result.Error = err.Error()
		return result
	}
	if cls.Label == "" {
		result.Status = domain.PhotoStatusNoFoodDetected
		return result
	}

	caption, facts := SynthesizeCaption(photo, cls)

	vector, err := s.embedder.Embed(ctx, caption)
	if err != nil {
		result.Status = domain.PhotoStatusError
		result.Error = fmt.Sprintf("failed to embed caption: %v", err)
		return result
	}

	payload := &repository.PhotoPayload{
		PhotoID:       photo.ID,
		UserID:        photo.UserID,
		FoodClass:     facts.FoodName,
		UserName:      photo.UserName,
		CreatedAt:     photo.CreatedAt,
		IsOwnPhoto:    photo.IsOwnPhoto,
		IsFriendPhoto: photo.IsFriendPhoto,
		IsFood:        facts.IsFood,
		IndexedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.store.Upsert(ctx, photo.ID, vector, caption, payload); err != nil {
		result.Status = domain.PhotoStatusError
		result.Error = fmt.Sprintf("failed to upsert document: %v", err)
		return result
	}

	// Archive and registry writes are best-effort. The vector store is
	// authoritative; losing these only degrades the photo listing.
	archiveKey := s.archivePhoto(ctx, photo, imageData)
	s.recordPhoto(ctx, photo, cls, caption, imageData, archiveKey)

	result.Status = domain.PhotoStatusIndexed
	result.FoodClass = cls.Label
	result.IsFood = cls.IsFood
	return result
}

func (s *IndexerService) archivePhoto(ctx context.Context, photo *domain.Photo, imageData []byte) string {
	if s.archive == nil {
		return ""
	}
	key, err := s.archive.Store(ctx, photo.UserID, photo.ID, imageData)
	if err != nil {
		s.log(ctx).WithField(logger.FieldPhotoID, photo.ID).
			WithError(err).Warn("Failed to archive photo")
		return ""
	}
	return key
}

func (s *IndexerService) recordPhoto(ctx context.Context, photo *domain.Photo, cls domain.Classification, caption string, imageData []byte, archiveKey string) {
	if s.photoRepo == nil {
		return
	}

	width, height, err := imageDimensions(imageData)
	if err != nil {
		s.log(ctx).WithField(logger.FieldPhotoID, photo.ID).
			WithError(err).Warn("Failed to decode image dimensions")
	}

	record := &domain.PhotoRecord{
		PhotoID:       photo.ID,
		UserID:        photo.UserID,
		UserName:      photo.UserName,
		FoodClass:     cls.Label,
		Caption:       caption,
		IsOwnPhoto:    photo.IsOwnPhoto,
		IsFriendPhoto: photo.IsFriendPhoto,
		IsFood:        cls.IsFood,
		Width:         width,
		Height:        height,
		ArchiveKey:    archiveKey,
		QdrantPointID: repository.PointID(photo.ID),
		CreatedAt:     photo.CreatedAt,
		IndexedAt:     time.Now().UTC(),
	}

	if err := s.photoRepo.Upsert(ctx, record); err != nil {
		s.log(ctx).WithField(logger.FieldPhotoID, photo.ID).
			WithError(err).Warn("Failed to save photo record")
	}
}

func imageDimensions(data []byte) (int, int, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return config.Width, config.Height, nil
}
