package models

import (
	"time"

	"github.com/google/uuid"
)

// Story is ephemeral content. Only rows with expires_at strictly in the
// future are visible; expiry is passive, rows are not reaped.
type Story struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Content   string    `json:"content"`
	MediaURL  string    `json:"media_url"`
	MediaType string    `json:"media_type" gorm:"size:10;default:'image'"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}

// StoryLike represents a like on a story, unique per user and story
type StoryLike struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	StoryID   uuid.UUID `json:"story_id" gorm:"type:uuid;index;uniqueIndex:idx_story_user_like"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;uniqueIndex:idx_story_user_like"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateStoryRequest defines the non-file fields of the create-story form
type CreateStoryRequest struct {
	Content string `json:"content" validate:"omitempty,max=500"`
}
