package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotificationFollow       = "follow"
	NotificationLike         = "like"
	NotificationComment      = "comment"
	NotificationMention      = "mention"
	NotificationBroadcast    = "broadcast"
	NotificationVerification = "verification"
)

// Notification represents a user notification
type Notification struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;index"` // recipient
	Type      string     `json:"type" gorm:"size:30;index"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read" gorm:"default:false;index"`
	RelatedID *uuid.UUID `json:"related_id" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
}

// BroadcastRequest defines the request body for an admin broadcast
type BroadcastRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=100"`
	Message string `json:"message" validate:"required,min=1,max=500"`
}
