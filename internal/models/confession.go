package models

import (
	"time"

	"github.com/google/uuid"
)

// Confession moderation states
const (
	ConfessionPending  = "pending"
	ConfessionApproved = "approved"
	ConfessionRejected = "rejected"
)

// Confession is an anonymous post. Only approved confessions are visible to
// non-admins; the author is never exposed to other users.
type Confession struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Content   string    `json:"content"`
	Status    string    `json:"status" gorm:"size:20;default:'pending';index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// SubmitConfessionRequest defines the request body for submitting a confession
type SubmitConfessionRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
