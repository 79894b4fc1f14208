package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

// VerificationRepository defines the interface for verification requests
type VerificationRepository interface {
	CreateRequest(request *models.VerificationRequest) error
	GetByUserID(userID uuid.UUID) (*models.VerificationRequest, error)
	GetByID(id uuid.UUID) (*models.VerificationRequest, error)
	GetAll() ([]models.VerificationRequest, error)
	Review(id uuid.UUID, status, notes string, reviewerID uuid.UUID, at time.Time) error
}

// PostgresVerificationRepository implements VerificationRepository for PostgreSQL
type PostgresVerificationRepository struct {
	db  *gorm.DB
	bus *realtime.Bus
}

// NewPostgresVerificationRepository creates a new PostgresVerificationRepository
func NewPostgresVerificationRepository(db *gorm.DB, bus *realtime.Bus) *PostgresVerificationRepository {
	return &PostgresVerificationRepository{db: db, bus: bus}
}

func (r *PostgresVerificationRepository) CreateRequest(request *models.VerificationRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	if request.Status == "" {
		request.Status = models.VerificationPending
	}
	if err := r.db.Create(request).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TableVerificationRequests, request.ID, request)
	return nil
}

func (r *PostgresVerificationRepository) GetByUserID(userID uuid.UUID) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	if err := r.db.First(&request, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *PostgresVerificationRepository) GetByID(id uuid.UUID) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	if err := r.db.First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *PostgresVerificationRepository) GetAll() ([]models.VerificationRequest, error) {
	var requests []models.VerificationRequest
	err := r.db.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *PostgresVerificationRepository) Review(id uuid.UUID, status, notes string, reviewerID uuid.UUID, at time.Time) error {
	res := r.db.Model(&models.VerificationRequest{}).Where("id = ?", id).Updates(map[string]any{
		"status":      status,
		"admin_notes": notes,
		"reviewed_at": at,
		"reviewed_by": reviewerID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("verification request not found")
	}
	r.bus.PublishRow(realtime.EventUpdate, TableVerificationRequests, id, nil)
	return nil
}
