package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

// ConfessionRepository defines the interface for confession operations
type ConfessionRepository interface {
	CreateConfession(confession *models.Confession) error
	GetByStatus(status string) ([]models.Confession, error)
	UpdateStatus(id uuid.UUID, status string) error
}

// PostgresConfessionRepository implements ConfessionRepository for PostgreSQL
type PostgresConfessionRepository struct {
	db  *gorm.DB
	bus *realtime.Bus
}

// NewPostgresConfessionRepository creates a new PostgresConfessionRepository
func NewPostgresConfessionRepository(db *gorm.DB, bus *realtime.Bus) *PostgresConfessionRepository {
	return &PostgresConfessionRepository{db: db, bus: bus}
}

func (r *PostgresConfessionRepository) CreateConfession(confession *models.Confession) error {
	if confession.ID == uuid.Nil {
		confession.ID = uuid.New()
	}
	if confession.Status == "" {
		confession.Status = models.ConfessionPending
	}
	if err := r.db.Create(confession).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TableConfessions, confession.ID, confession)
	return nil
}

func (r *PostgresConfessionRepository) GetByStatus(status string) ([]models.Confession, error) {
	var confessions []models.Confession
	err := r.db.Where("status = ?", status).Order("created_at DESC").Find(&confessions).Error
	return confessions, err
}

func (r *PostgresConfessionRepository) UpdateStatus(id uuid.UUID, status string) error {
	res := r.db.Model(&models.Confession{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("confession not found")
	}
	r.bus.PublishRow(realtime.EventUpdate, TableConfessions, id, nil)
	return nil
}
