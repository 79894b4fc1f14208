package viewmodel

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/repositories"
)

// ConfessionService handles the anonymous confession board. Confessions stay
// pending until an admin approves them; every decision lands in the audit
// trail.
type ConfessionService struct {
	confessions repositories.ConfessionRepository
	audit       repositories.AuditRepository
}

// NewConfessionService creates a new ConfessionService
func NewConfessionService(confessions repositories.ConfessionRepository, audit repositories.AuditRepository) *ConfessionService {
	return &ConfessionService{confessions: confessions, audit: audit}
}

// Submit queues a confession for moderation.
func (s *ConfessionService) Submit(author uuid.UUID, content string) (*models.Confession, error) {
	confession := &models.Confession{UserID: author, Content: content}
	if err := s.confessions.CreateConfession(confession); err != nil {
		return nil, err
	}
	return confession, nil
}

// Approved returns the public board, newest-first. The author id is stripped
// so anonymity holds even if the payload leaks.
func (s *ConfessionService) Approved() ([]models.Confession, error) {
	confessions, err := s.confessions.GetByStatus(models.ConfessionApproved)
	if err != nil {
		return nil, err
	}
	for i := range confessions {
		confessions[i].UserID = uuid.Nil
	}
	return confessions, nil
}

// Pending returns the moderation queue. Admin only; callers enforce the role.
func (s *ConfessionService) Pending() ([]models.Confession, error) {
	return s.confessions.GetByStatus(models.ConfessionPending)
}

// Approve publishes a pending confession and records the decision.
func (s *ConfessionService) Approve(adminID, confessionID uuid.UUID) error {
	return s.review(adminID, confessionID, models.ConfessionApproved, models.AuditApproveConfession)
}

// Reject discards a pending confession and records the decision.
func (s *ConfessionService) Reject(adminID, confessionID uuid.UUID) error {
	return s.review(adminID, confessionID, models.ConfessionRejected, models.AuditRejectConfession)
}

func (s *ConfessionService) review(adminID, confessionID uuid.UUID, status, action string) error {
	if err := s.confessions.UpdateStatus(confessionID, status); err != nil {
		return err
	}
	if err := s.audit.Record(action, adminID, &confessionID, "confession", nil); err != nil {
		return fmt.Errorf("confession %s but audit write failed: %w", status, err)
	}
	return nil
}
