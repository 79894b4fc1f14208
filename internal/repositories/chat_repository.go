package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/uniconnect-hub/backend/internal/models"
)

// ChatRepository defines the interface for assistant transcript persistence
type ChatRepository interface {
	CreateTranscript(ctx context.Context, transcript *models.ChatTranscript) error
	AppendMessages(ctx context.Context, id string, messages []models.ChatMessage) error
	GetTranscriptByID(ctx context.Context, id string) (*models.ChatTranscript, error)
	GetTranscriptsByUser(ctx context.Context, userID string, limit int64) ([]models.ChatTranscript, error)
}

// MongoChatRepository implements ChatRepository for MongoDB
type MongoChatRepository struct {
	collection *mongo.Collection
}

// NewMongoChatRepository creates a new MongoChatRepository
func NewMongoChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{collection: db.Collection("chat_transcripts")}
}

// CreateTranscript stores a new assistant conversation
func (r *MongoChatRepository) CreateTranscript(ctx context.Context, transcript *models.ChatTranscript) error {
	transcript.ID = primitive.NewObjectID()
	transcript.CreatedAt = time.Now()
	transcript.UpdatedAt = transcript.CreatedAt
	_, err := r.collection.InsertOne(ctx, transcript)
	return err
}

// AppendMessages adds turns to an existing transcript
func (r *MongoChatRepository) AppendMessages(ctx context.Context, id string, messages []models.ChatMessage) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid transcript ID format: %w", err)
	}

	update := bson.M{
		"$push": bson.M{"messages": bson.M{"$each": messages}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("transcript not found")
	}
	return nil
}

// GetTranscriptByID retrieves one transcript
func (r *MongoChatRepository) GetTranscriptByID(ctx context.Context, id string) (*models.ChatTranscript, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid transcript ID format: %w", err)
	}

	var transcript models.ChatTranscript
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&transcript)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("transcript not found")
		}
		return nil, err
	}
	return &transcript, nil
}

// GetTranscriptsByUser retrieves a user's transcripts, newest-first
func (r *MongoChatRepository) GetTranscriptsByUser(ctx context.Context, userID string, limit int64) ([]models.ChatTranscript, error) {
	var transcripts []models.ChatTranscript
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &transcripts); err != nil {
		return nil, err
	}
	return transcripts, nil
}
