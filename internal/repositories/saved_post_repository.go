package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

// SavedPostRepository defines the interface for bookmarked posts
type SavedPostRepository interface {
	SavePost(userID, postID uuid.UUID) error
	UnsavePost(userID, postID uuid.UUID) error
	GetSavedPostIDs(userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// PostgresSavedPostRepository implements SavedPostRepository for PostgreSQL
type PostgresSavedPostRepository struct {
	db  *gorm.DB
	bus *realtime.Bus
}

// NewPostgresSavedPostRepository creates a new PostgresSavedPostRepository
func NewPostgresSavedPostRepository(db *gorm.DB, bus *realtime.Bus) *PostgresSavedPostRepository {
	return &PostgresSavedPostRepository{db: db, bus: bus}
}

func (r *PostgresSavedPostRepository) SavePost(userID, postID uuid.UUID) error {
	saved := models.SavedPost{ID: uuid.New(), UserID: userID, PostID: postID}
	if err := r.db.Create(&saved).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TableSavedPosts, saved.ID, saved)
	return nil
}

func (r *PostgresSavedPostRepository) UnsavePost(userID, postID uuid.UUID) error {
	res := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.SavedPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("saved post not found")
	}
	r.bus.PublishRow(realtime.EventDelete, TableSavedPosts, postID, nil)
	return nil
}

func (r *PostgresSavedPostRepository) GetSavedPostIDs(userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	saved := make(map[uuid.UUID]bool)
	if len(postIDs) == 0 {
		return saved, nil
	}
	var rows []models.SavedPost
	if err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		saved[row.PostID] = true
	}
	return saved, nil
}
