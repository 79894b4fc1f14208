package aichat

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/repositories"
)

// ErrForbidden is returned when a transcript belongs to another user.
var ErrForbidden = errors.New("transcript does not belong to user")

// Service runs assistant conversations: it selects the persona for the
// user's role, streams the reply, and records the exchange as a transcript.
type Service struct {
	client      *Client
	transcripts repositories.ChatRepository
}

// NewService creates a new Service
func NewService(client *Client, transcripts repositories.ChatRepository) *Service {
	return &Service{client: client, transcripts: transcripts}
}

// StreamReply streams the assistant's answer to the given history, calling
// onDelta per fragment. The exchange is persisted best-effort: a transcript
// store failure is logged, not surfaced, since the user already has the reply.
// It returns the transcript id (new or existing) and the full reply.
func (s *Service) StreamReply(ctx context.Context, userID uuid.UUID, role, transcriptID string, history []models.ChatMessage, onDelta func(string) error) (string, string, error) {
	reply, err := s.client.StreamChat(ctx, SystemPromptFor(role), history, onDelta)
	if err != nil {
		return transcriptID, reply, err
	}

	turn := []models.ChatMessage{{Role: "assistant", Content: reply}}
	if len(history) > 0 && history[len(history)-1].Role == "user" {
		turn = append([]models.ChatMessage{history[len(history)-1]}, turn...)
	}

	if transcriptID == "" {
		transcript := &models.ChatTranscript{
			UserID:   userID.String(),
			Role:     role,
			Messages: turn,
		}
		if err := s.transcripts.CreateTranscript(ctx, transcript); err != nil {
			log.Printf("aichat: create transcript failed: %v", err)
			return "", reply, nil
		}
		return transcript.ID.Hex(), reply, nil
	}

	if err := s.transcripts.AppendMessages(ctx, transcriptID, turn); err != nil {
		log.Printf("aichat: append transcript failed: %v", err)
	}
	return transcriptID, reply, nil
}

// TranscriptsFor returns the user's recent assistant conversations.
func (s *Service) TranscriptsFor(ctx context.Context, userID uuid.UUID, limit int64) ([]models.ChatTranscript, error) {
	return s.transcripts.GetTranscriptsByUser(ctx, userID.String(), limit)
}

// Transcript returns one conversation if it belongs to the user.
func (s *Service) Transcript(ctx context.Context, userID uuid.UUID, id string) (*models.ChatTranscript, error) {
	transcript, err := s.transcripts.GetTranscriptByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transcript.UserID != userID.String() {
		return nil, ErrForbidden
	}
	return transcript, nil
}
