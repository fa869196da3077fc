package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/truegift/truegift-rag/internal/domain"
)

func newTestRepo(t *testing.T) *PhotoRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&domain.PhotoRecord{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewPhotoRepository(db)
}

func testRecord(photoID, userID, food string, indexedAt time.Time) *domain.PhotoRecord {
	return &domain.PhotoRecord{
		PhotoID:       photoID,
		UserID:        userID,
		UserName:      "user-" + userID,
		FoodClass:     food,
		Caption:       "caption for " + photoID,
		IsFood:        food != "",
		QdrantPointID: PointID(photoID),
		CreatedAt:     "2025-06-01T10:00:00Z",
		IndexedAt:     indexedAt,
	}
}

func TestPhotoRepoUpsertConverges(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	if err := repo.Upsert(ctx, testRecord("p1", "1", "phở", now)); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	updated := testRecord("p1", "1", "bún chả", now)
	if err := repo.Upsert(ctx, updated); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	rec, err := repo.GetByPhotoID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByPhotoID failed: %v", err)
	}
	if rec.FoodClass != "bún chả" {
		t.Errorf("food class = %q, want bún chả (upsert should overwrite)", rec.FoodClass)
	}

	count, err := repo.CountByUser(ctx, "1")
	if err != nil {
		t.Fatalf("CountByUser failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (upsert must not duplicate)", count)
	}
}

func TestPhotoRepoExists(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "missing")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("missing photo reported as existing")
	}

	if err := repo.Upsert(ctx, testRecord("p1", "1", "phở", time.Now())); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	exists, err = repo.Exists(ctx, "p1")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("stored photo reported as missing")
	}
}

func TestPhotoRepoListFood(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Now()

	records := []*domain.PhotoRecord{
		testRecord("p1", "1", "phở", base.Add(-2*time.Hour)),
		testRecord("p2", "1", "bún chả", base.Add(-1*time.Hour)),
		testRecord("p3", "3", "cơm tấm", base),
		testRecord("p4", "1", "", base), // non-food, must not be listed
	}
	for _, rec := range records {
		if err := repo.Upsert(ctx, rec); err != nil {
			t.Fatalf("upsert %s failed: %v", rec.PhotoID, err)
		}
	}

	t.Run("all users newest first", func(t *testing.T) {
		recs, err := repo.ListFood(ctx, "", 10)
		if err != nil {
			t.Fatalf("ListFood failed: %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("listed %d records, want 3", len(recs))
		}
		if recs[0].PhotoID != "p3" || recs[1].PhotoID != "p2" || recs[2].PhotoID != "p1" {
			t.Errorf("unexpected order: %s, %s, %s", recs[0].PhotoID, recs[1].PhotoID, recs[2].PhotoID)
		}
	})

	t.Run("scoped to user", func(t *testing.T) {
		recs, err := repo.ListFood(ctx, "1", 10)
		if err != nil {
			t.Fatalf("ListFood failed: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("listed %d records for user 1, want 2", len(recs))
		}
		for _, rec := range recs {
			if rec.UserID != "1" {
				t.Errorf("record %s belongs to user %s", rec.PhotoID, rec.UserID)
			}
		}
	})

	t.Run("limit applied", func(t *testing.T) {
		recs, err := repo.ListFood(ctx, "", 1)
		if err != nil {
			t.Fatalf("ListFood failed: %v", err)
		}
		if len(recs) != 1 {
			t.Errorf("listed %d records, want 1", len(recs))
		}
	})
}
