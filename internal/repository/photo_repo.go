package repository

import (
	"context"

	"github.com/truegift/truegift-rag/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PhotoRepository handles the relational registry of indexed photos.
type PhotoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new PhotoRepository.
func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Upsert creates or updates a registry record keyed by photo ID. Racing
// writers for the same photo converge on an equivalent row.
func (r *PhotoRepository) Upsert(ctx context.Context, rec *domain.PhotoRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "photo_id"}},
		UpdateAll: true,
	}).Create(rec).Error
}

// GetByPhotoID retrieves a registry record by photo ID.
func (r *PhotoRepository) GetByPhotoID(ctx context.Context, photoID string) (*domain.PhotoRecord, error) {
	var rec domain.PhotoRecord
	if err := r.db.WithContext(ctx).First(&rec, "photo_id = ?", photoID).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Exists checks whether a registry record exists for the photo ID.
func (r *PhotoRepository) Exists(ctx context.Context, photoID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.PhotoRecord{}).
		Where("photo_id = ?", photoID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFood lists indexed food photos, optionally scoped to one user, newest
// first by index time.
func (r *PhotoRepository) ListFood(ctx context.Context, userID string, limit int) ([]domain.PhotoRecord, error) {
	q := r.db.WithContext(ctx).Where("is_food = ?", true)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var recs []domain.PhotoRecord
	if err := q.Order("indexed_at DESC").Limit(limit).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// CountByUser returns the number of indexed photos for a user.
func (r *PhotoRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.PhotoRecord{}).
		Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
