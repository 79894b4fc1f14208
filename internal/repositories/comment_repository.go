package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

// CommentRepository defines the interface for comment operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentsByPostIDs(postIDs []uuid.UUID) ([]models.Comment, error)
	DeleteComment(id, ownerID uuid.UUID) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db  *gorm.DB
	bus *realtime.Bus
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB, bus *realtime.Bus) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db, bus: bus}
}

func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if err := r.db.Create(comment).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TableComments, comment.ID, comment)
	return nil
}

// GetCommentsByPostIDs returns comments for the given posts, oldest-first.
func (r *PostgresCommentRepository) GetCommentsByPostIDs(postIDs []uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	if len(postIDs) == 0 {
		return comments, nil
	}
	err := r.db.Where("post_id IN ?", postIDs).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) DeleteComment(id, ownerID uuid.UUID) error {
	res := r.db.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment not found")
	}
	r.bus.PublishRow(realtime.EventDelete, TableComments, id, nil)
	return nil
}
