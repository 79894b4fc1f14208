package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

// ConversationRepository defines the interface for conversations, participants
// and messages
type ConversationRepository interface {
	// FindOrCreateDM returns the unique 1:1 conversation between the two
	// users, creating it (with both participant rows) when absent. The
	// dm_key unique index guarantees a single winner under concurrent
	// creation from both sides.
	FindOrCreateDM(a, b uuid.UUID) (*models.Conversation, error)
	CreateGroup(name string, creatorID uuid.UUID, memberIDs []uuid.UUID) (*models.Conversation, error)
	GetAllConversations() ([]models.Conversation, error)
	GetConversationIDsFor(userID uuid.UUID) ([]uuid.UUID, error)
	GetConversationsByIDs(ids []uuid.UUID) ([]models.Conversation, error)
	GetParticipants(conversationIDs []uuid.UUID) ([]models.ConversationParticipant, error)
	IsParticipant(conversationID, userID uuid.UUID) (bool, error)
	CreateMessage(message *models.Message) error
	// GetMessagesByConversationIDs returns messages across conversations,
	// newest-first, for list assembly.
	GetMessagesByConversationIDs(conversationIDs []uuid.UUID) ([]models.Message, error)
	// GetConversationMessages returns one conversation's history in
	// chronological order.
	GetConversationMessages(conversationID uuid.UUID) ([]models.Message, error)
	// MarkMessagesRead sets read_at on every unread message in the
	// conversation not sent by readerID.
	MarkMessagesRead(conversationID, readerID uuid.UUID, at time.Time) (int64, error)
}

// PostgresConversationRepository implements ConversationRepository for PostgreSQL
type PostgresConversationRepository struct {
	db  *gorm.DB
	bus *realtime.Bus
}

// NewPostgresConversationRepository creates a new PostgresConversationRepository
func NewPostgresConversationRepository(db *gorm.DB, bus *realtime.Bus) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db, bus: bus}
}

func (r *PostgresConversationRepository) FindOrCreateDM(a, b uuid.UUID) (*models.Conversation, error) {
	key := models.DMKeyFor(a, b)

	var conv models.Conversation
	err := r.db.First(&conv, "dm_key = ?", key).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = models.Conversation{ID: uuid.New(), IsGroup: false, DMKey: key}
	txErr := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		participants := []models.ConversationParticipant{
			{ID: uuid.New(), ConversationID: conv.ID, UserID: a},
			{ID: uuid.New(), ConversationID: conv.ID, UserID: b},
		}
		return tx.Create(&participants).Error
	})
	if txErr != nil {
		// The other side won the race; their row is the conversation.
		var existing models.Conversation
		if ferr := r.db.First(&existing, "dm_key = ?", key).Error; ferr == nil {
			return &existing, nil
		}
		return nil, txErr
	}

	r.bus.PublishRow(realtime.EventInsert, TableConversations, conv.ID, conv)
	return &conv, nil
}

func (r *PostgresConversationRepository) CreateGroup(name string, creatorID uuid.UUID, memberIDs []uuid.UUID) (*models.Conversation, error) {
	conv := models.Conversation{ID: uuid.New(), IsGroup: true, GroupName: name}

	members := make(map[uuid.UUID]bool, len(memberIDs)+1)
	members[creatorID] = true
	for _, id := range memberIDs {
		members[id] = true
	}

	txErr := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		participants := make([]models.ConversationParticipant, 0, len(members))
		for id := range members {
			participants = append(participants, models.ConversationParticipant{
				ID: uuid.New(), ConversationID: conv.ID, UserID: id,
			})
		}
		return tx.Create(&participants).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	r.bus.PublishRow(realtime.EventInsert, TableConversations, conv.ID, conv)
	return &conv, nil
}

func (r *PostgresConversationRepository) GetAllConversations() ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.Order("created_at DESC").Find(&convs).Error
	return convs, err
}

func (r *PostgresConversationRepository) GetConversationIDsFor(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.ConversationParticipant{}).
		Where("user_id = ?", userID).Pluck("conversation_id", &ids).Error
	return ids, err
}

func (r *PostgresConversationRepository) GetConversationsByIDs(ids []uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	if len(ids) == 0 {
		return convs, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&convs).Error
	return convs, err
}

func (r *PostgresConversationRepository) GetParticipants(conversationIDs []uuid.UUID) ([]models.ConversationParticipant, error) {
	var parts []models.ConversationParticipant
	if len(conversationIDs) == 0 {
		return parts, nil
	}
	err := r.db.Where("conversation_id IN ?", conversationIDs).Find(&parts).Error
	return parts, err
}

func (r *PostgresConversationRepository) IsParticipant(conversationID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresConversationRepository) CreateMessage(message *models.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if err := r.db.Create(message).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TableMessages, message.ID, message)
	return nil
}

func (r *PostgresConversationRepository) GetMessagesByConversationIDs(conversationIDs []uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	if len(conversationIDs) == 0 {
		return msgs, nil
	}
	err := r.db.Where("conversation_id IN ?", conversationIDs).
		Order("created_at DESC").Find(&msgs).Error
	return msgs, err
}

func (r *PostgresConversationRepository) GetConversationMessages(conversationID uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").Find(&msgs).Error
	return msgs, err
}

func (r *PostgresConversationRepository) MarkMessagesRead(conversationID, readerID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", at)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		r.bus.PublishRow(realtime.EventUpdate, TableMessages, conversationID, nil)
	}
	return res.RowsAffected, nil
}
