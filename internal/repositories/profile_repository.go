package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	CreateProfile(profile *models.Profile) error
	GetByUserID(userID uuid.UUID) (*models.Profile, error)
	GetByUsername(username string) (*models.Profile, error)
	GetByUserIDs(userIDs []uuid.UUID) ([]models.Profile, error)
	GetAll() ([]models.Profile, error)
	SearchProfiles(query string, limit int) ([]models.Profile, error)
	UpdateProfile(userID uuid.UUID, fields map[string]any) error
	SetSuspended(userID uuid.UUID, suspended bool) error
	SetVerified(userID uuid.UUID, verified bool) error
	SetOnline(userID uuid.UUID, online bool) error
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db  *gorm.DB
	bus *realtime.Bus
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB, bus *realtime.Bus) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db, bus: bus}
}

func (r *PostgresProfileRepository) CreateProfile(profile *models.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if err := r.db.Create(profile).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TableProfiles, profile.ID, profile)
	return nil
}

func (r *PostgresProfileRepository) GetByUserID(userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) GetByUsername(username string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) GetByUserIDs(userIDs []uuid.UUID) ([]models.Profile, error) {
	var profiles []models.Profile
	if len(userIDs) == 0 {
		return profiles, nil
	}
	err := r.db.Where("user_id IN ?", userIDs).Find(&profiles).Error
	return profiles, err
}

func (r *PostgresProfileRepository) GetAll() ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Order("created_at ASC").Find(&profiles).Error
	return profiles, err
}

func (r *PostgresProfileRepository) SearchProfiles(query string, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	pattern := "%" + query + "%"
	err := r.db.Where("username ILIKE ? OR name ILIKE ?", pattern, pattern).
		Limit(limit).Find(&profiles).Error
	return profiles, err
}

func (r *PostgresProfileRepository) UpdateProfile(userID uuid.UUID, fields map[string]any) error {
	if err := r.db.Model(&models.Profile{}).Where("user_id = ?", userID).Updates(fields).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventUpdate, TableProfiles, userID, nil)
	return nil
}

func (r *PostgresProfileRepository) SetSuspended(userID uuid.UUID, suspended bool) error {
	return r.UpdateProfile(userID, map[string]any{"is_suspended": suspended})
}

func (r *PostgresProfileRepository) SetVerified(userID uuid.UUID, verified bool) error {
	return r.UpdateProfile(userID, map[string]any{"is_verified": verified})
}

func (r *PostgresProfileRepository) SetOnline(userID uuid.UUID, online bool) error {
	return r.UpdateProfile(userID, map[string]any{"is_online": online})
}
