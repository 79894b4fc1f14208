package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedPost represents a bookmarked post, unique per user and post
type SavedPost struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;uniqueIndex:idx_user_post_save"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;index;uniqueIndex:idx_user_post_save"`
	CreatedAt time.Time `json:"created_at"`
}
