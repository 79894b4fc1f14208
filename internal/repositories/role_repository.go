package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
)

// RoleRepository defines the interface for application role grants
type RoleRepository interface {
	GrantRole(userID uuid.UUID, role string) error
	HasRole(userID uuid.UUID, role string) (bool, error)
}

// PostgresRoleRepository implements RoleRepository for PostgreSQL
type PostgresRoleRepository struct {
	db *gorm.DB
}

// NewPostgresRoleRepository creates a new PostgresRoleRepository
func NewPostgresRoleRepository(db *gorm.DB) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

func (r *PostgresRoleRepository) GrantRole(userID uuid.UUID, role string) error {
	grant := models.UserRole{ID: uuid.New(), UserID: userID, Role: role}
	return r.db.Create(&grant).Error
}

func (r *PostgresRoleRepository) HasRole(userID uuid.UUID, role string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
