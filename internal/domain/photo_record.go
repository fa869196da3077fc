package domain

import "time"

// PhotoRecord is the relational registry row for one indexed photo. The
// vector store holds the authoritative Indexed Document; this record exists
// for listing and reporting without a vector query.
type PhotoRecord struct {
	PhotoID       string    `gorm:"type:text;primaryKey" json:"photo_id"`
	UserID        string    `gorm:"type:text;not null;index:idx_photo_records_user" json:"user_id"`
	UserName      string    `gorm:"type:text" json:"user_name"`
	FoodClass     string    `gorm:"type:text;index:idx_photo_records_food" json:"food_class"`
	Caption       string    `gorm:"type:text" json:"caption"`
	IsOwnPhoto    bool      `json:"is_own_photo"`
	IsFriendPhoto bool      `json:"is_friend_photo"`
	IsFood        bool      `gorm:"index:idx_photo_records_is_food" json:"is_food"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	ArchiveKey    string    `gorm:"type:text" json:"archive_key,omitempty"`
	QdrantPointID string    `gorm:"type:text;not null" json:"qdrant_point_id"`
	CreatedAt     string    `gorm:"type:text" json:"created_at"`
	IndexedAt     time.Time `json:"indexed_at"`
}

// TableName returns the database table name for PhotoRecord.
func (PhotoRecord) TableName() string {
	return "photo_records"
}
