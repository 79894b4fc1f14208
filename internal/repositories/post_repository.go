package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

// PostRepository defines the interface for post and post-media operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetAllPosts() ([]models.Post, error)
	GetPostByID(id uuid.UUID) (*models.Post, error)
	DeletePost(id uuid.UUID, ownerID uuid.UUID) error
	AddMedia(media *models.PostMedia) error
	GetMediaByPostIDs(postIDs []uuid.UUID) ([]models.PostMedia, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db  *gorm.DB
	bus *realtime.Bus
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB, bus *realtime.Bus) *PostgresPostRepository {
	return &PostgresPostRepository{db: db, bus: bus}
}

func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.Visibility == "" {
		post.Visibility = models.VisibilityPublic
	}
	if err := r.db.Create(post).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TablePosts, post.ID, post)
	return nil
}

// GetAllPosts returns every post ordered newest-first.
func (r *PostgresPostRepository) GetAllPosts() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) GetPostByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post owned by ownerID together with its dependents.
func (r *PostgresPostRepository) DeletePost(id uuid.UUID, ownerID uuid.UUID) error {
	res := r.db.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post not found")
	}
	if err := r.db.Where("post_id = ?", id).Delete(&models.PostMedia{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventDelete, TablePosts, id, nil)
	return nil
}

func (r *PostgresPostRepository) AddMedia(media *models.PostMedia) error {
	if media.ID == uuid.Nil {
		media.ID = uuid.New()
	}
	if err := r.db.Create(media).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TablePostMedia, media.ID, media)
	return nil
}

func (r *PostgresPostRepository) GetMediaByPostIDs(postIDs []uuid.UUID) ([]models.PostMedia, error) {
	var media []models.PostMedia
	if len(postIDs) == 0 {
		return media, nil
	}
	err := r.db.Where("post_id IN ?", postIDs).Find(&media).Error
	return media, err
}
