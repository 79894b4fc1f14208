package repositories

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
)

// AuditRepository defines the interface for the append-only admin audit trail
type AuditRepository interface {
	Record(action string, adminID uuid.UUID, targetID *uuid.UUID, targetType string, details map[string]any) error
	GetRecent(limit int) ([]models.AuditLog, error)
}

// PostgresAuditRepository implements AuditRepository for PostgreSQL
type PostgresAuditRepository struct {
	db  *gorm.DB
	bus *realtime.Bus
}

// NewPostgresAuditRepository creates a new PostgresAuditRepository
func NewPostgresAuditRepository(db *gorm.DB, bus *realtime.Bus) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db, bus: bus}
}

func (r *PostgresAuditRepository) Record(action string, adminID uuid.UUID, targetID *uuid.UUID, targetType string, details map[string]any) error {
	entry := models.AuditLog{
		ID:         uuid.New(),
		Action:     action,
		AdminID:    &adminID,
		TargetID:   targetID,
		TargetType: targetType,
	}
	if details != nil {
		blob, err := json.Marshal(details)
		if err != nil {
			return err
		}
		entry.Details = blob
	}
	if err := r.db.Create(&entry).Error; err != nil {
		return err
	}
	r.bus.PublishRow(realtime.EventInsert, TableAuditLogs, entry.ID, entry)
	return nil
}

func (r *PostgresAuditRepository) GetRecent(limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
