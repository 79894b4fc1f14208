package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

// LikeRepository defines the interface for post-like operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(postID, userID uuid.UUID) error
	GetLikesByPostIDs(postIDs []uuid.UUID) ([]models.Like, error)
	HasUserLikedPost(postID, userID uuid.UUID) (bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db  *gorm.DB
	bus *realtime.Bus
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB, bus *realtime.Bus) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db, bus: bus}
}

func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	if like.ID == uuid.Nil {
		like.ID = uuid.New()
	}
	if err := r.db.Create(like).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TableLikes, like.ID, like)
	return nil
}

func (r *PostgresLikeRepository) DeleteLike(postID, userID uuid.UUID) error {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("like not found")
	}
	r.bus.PublishRow(realtime.EventDelete, TableLikes, postID, nil)
	return nil
}

func (r *PostgresLikeRepository) GetLikesByPostIDs(postIDs []uuid.UUID) ([]models.Like, error) {
	var likes []models.Like
	if len(postIDs) == 0 {
		return likes, nil
	}
	err := r.db.Where("post_id IN ?", postIDs).Find(&likes).Error
	return likes, err
}

func (r *PostgresLikeRepository) HasUserLikedPost(postID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
