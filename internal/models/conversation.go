package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Conversation is a direct or group chat. For direct chats DMKey is the
// sorted participant pair; its unique index is what makes find-or-create
// safe under concurrent creation from both sides.
type Conversation struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	IsGroup   bool      `json:"is_group" gorm:"default:false"`
	GroupName string    `json:"group_name"`
	DMKey     string    `json:"-" gorm:"uniqueIndex;default:null"`
	CreatedAt time.Time `json:"created_at"`
}

// DMKeyFor returns the deterministic key for a 1:1 conversation between two users.
func DMKeyFor(a, b uuid.UUID) string {
	if a.String() > b.String() {
		a, b = b, a
	}
	return fmt.Sprintf("%s:%s", a, b)
}

// ConversationParticipant links a user into a conversation, unique per pair
type ConversationParticipant struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid;index;uniqueIndex:idx_conv_user"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;index;uniqueIndex:idx_conv_user"`
	JoinedAt       time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

// Message is a chat message. ReadAt stays null until the recipient opens the
// conversation.
type Message struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID  `json:"conversation_id" gorm:"type:uuid;index"`
	SenderID       uuid.UUID  `json:"sender_id" gorm:"type:uuid;index"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at" gorm:"index"`
	ReadAt         *time.Time `json:"read_at"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// CreateGroupChatRequest defines the request body for creating a group chat
type CreateGroupChatRequest struct {
	Name      string      `json:"name" validate:"required,min=1,max=100"`
	MemberIDs []uuid.UUID `json:"member_ids" validate:"required,min=1"`
}

// StartConversationRequest defines the request body for starting a direct chat
type StartConversationRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}
