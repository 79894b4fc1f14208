package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is one turn of an assistant conversation
type ChatMessage struct {
	Role    string `json:"role" bson:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" bson:"content" validate:"required"`
}

// ChatTranscript is a persisted assistant conversation, stored in MongoDB
type ChatTranscript struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Role      string             `json:"role" bson:"role"` // admin or student prompt profile
	Messages  []ChatMessage      `json:"messages" bson:"messages"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// ChatRequest defines the request body for the assistant endpoint
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}
