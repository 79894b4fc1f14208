package models

import (
	"time"

	"github.com/google/uuid"
)

// Like represents a like on a post, unique per user and post
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;index;uniqueIndex:idx_post_user_like"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"created_at"`
}
