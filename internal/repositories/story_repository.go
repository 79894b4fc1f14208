package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

// StoryRepository defines the interface for story and story-like operations
type StoryRepository interface {
	CreateStory(story *models.Story) error
	// GetActiveStories returns stories with expires_at strictly after now,
	// newest-first. A story exactly at the boundary is excluded.
	GetActiveStories(now time.Time) ([]models.Story, error)
	DeleteStory(id, ownerID uuid.UUID) error
	LikeStory(storyID, userID uuid.UUID) error
	UnlikeStory(storyID, userID uuid.UUID) error
	GetLikesByStoryIDs(storyIDs []uuid.UUID) ([]models.StoryLike, error)
}

// PostgresStoryRepository implements StoryRepository for PostgreSQL
type PostgresStoryRepository struct {
	db  *gorm.DB
	bus *realtime.Bus
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB, bus *realtime.Bus) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db, bus: bus}
}

func (r *PostgresStoryRepository) CreateStory(story *models.Story) error {
	if story.ID == uuid.Nil {
		story.ID = uuid.New()
	}
	if story.MediaType == "" {
		story.MediaType = "image"
	}
	if story.ExpiresAt.IsZero() {
		story.ExpiresAt = time.Now().Add(24 * time.Hour)
	}
	if err := r.db.Create(story).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TableStories, story.ID, story)
	return nil
}

func (r *PostgresStoryRepository) GetActiveStories(now time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.Where("expires_at > ?", now).Order("created_at DESC").Find(&stories).Error
	return stories, err
}

func (r *PostgresStoryRepository) DeleteStory(id, ownerID uuid.UUID) error {
	res := r.db.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Story{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("story not found")
	}
	if err := r.db.Where("story_id = ?", id).Delete(&models.StoryLike{}).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventDelete, TableStories, id, nil)
	return nil
}

func (r *PostgresStoryRepository) LikeStory(storyID, userID uuid.UUID) error {
	like := models.StoryLike{ID: uuid.New(), StoryID: storyID, UserID: userID}
	if err := r.db.Create(&like).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TableStoryLikes, like.ID, like)
	return nil
}

func (r *PostgresStoryRepository) UnlikeStory(storyID, userID uuid.UUID) error {
	res := r.db.Where("story_id = ? AND user_id = ?", storyID, userID).Delete(&models.StoryLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("story like not found")
	}
	r.bus.PublishRow(realtime.EventDelete, TableStoryLikes, storyID, nil)
	return nil
}

func (r *PostgresStoryRepository) GetLikesByStoryIDs(storyIDs []uuid.UUID) ([]models.StoryLike, error) {
	var likes []models.StoryLike
	if len(storyIDs) == 0 {
		return likes, nil
	}
	err := r.db.Where("story_id IN ?", storyIDs).Find(&likes).Error
	return likes, err
}
