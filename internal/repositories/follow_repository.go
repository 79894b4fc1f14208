package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(follow *models.Follow) error
	DeleteFollow(followerID, followingID uuid.UUID) error
	IsFollowing(followerID, followingID uuid.UUID) (bool, error)
	GetFollowingIDs(userID uuid.UUID) ([]uuid.UUID, error)
	GetFollowerIDs(userID uuid.UUID) ([]uuid.UUID, error)
	GetFollowersCount(userID uuid.UUID) (int64, error)
	GetFollowingCount(userID uuid.UUID) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db  *gorm.DB
	bus *realtime.Bus
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB, bus *realtime.Bus) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db, bus: bus}
}

func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) error {
	if follow.FollowerID == follow.FollowingID {
		return fmt.Errorf("cannot follow yourself")
	}
	if follow.ID == uuid.Nil {
		follow.ID = uuid.New()
	}
	if err := r.db.Create(follow).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TableFollows, follow.ID, follow)
	return nil
}

func (r *PostgresFollowRepository) DeleteFollow(followerID, followingID uuid.UUID) error {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("follow relationship not found")
	}
	r.bus.PublishRow(realtime.EventDelete, TableFollows, followerID, nil)
	return nil
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowingIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("following_id", &ids).Error
	return ids, err
}

func (r *PostgresFollowRepository) GetFollowerIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Pluck("follower_id", &ids).Error
	return ids, err
}

func (r *PostgresFollowRepository) GetFollowersCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
