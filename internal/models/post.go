package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Post visibility levels
const (
	VisibilityPublic     = "public"
	VisibilityCourseOnly = "course_only"
	VisibilityFriends    = "friends"
)

// Post is a feed post. Likes and comment counts are never stored here; they
// are derived from the likes/comments tables at read time.
type Post struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID      `json:"user_id" gorm:"type:uuid;index"`
	Content    string         `json:"content"`
	Hashtags   pq.StringArray `json:"hashtags" gorm:"type:text[]"`
	Visibility string         `json:"visibility" gorm:"size:20;default:'public'"`
	CreatedAt  time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// PostMedia is an uploaded attachment belonging to a post.
type PostMedia struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;index"`
	MediaURL  string    `json:"media_url"`
	MediaType string    `json:"media_type" gorm:"size:10"` // image, video
	CreatedAt time.Time `json:"created_at"`
}

// CreatePostRequest defines the non-file fields of the create-post form
type CreatePostRequest struct {
	Content    string   `json:"content" validate:"required,min=1,max=2000"`
	Hashtags   []string `json:"hashtags" validate:"omitempty,dive,max=50"`
	Visibility string   `json:"visibility" validate:"omitempty,oneof=public course_only friends"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
