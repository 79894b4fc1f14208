package viewmodel

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/repositories"
)

// VerificationMailer sends the outcome mail for a reviewed application.
type VerificationMailer interface {
	SendVerificationApproved(to, name string) error
	SendVerificationRejected(to, name, notes string) error
}

// VerificationService handles verified badge applications. Approval flips the
// profile's is_verified flag and records an audit entry; the outcome mail is
// best-effort.
type VerificationService struct {
	requests repositories.VerificationRepository
	profiles repositories.ProfileRepository
	users    repositories.UserRepository
	audit    repositories.AuditRepository
	mailer   VerificationMailer
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(
	requests repositories.VerificationRepository,
	profiles repositories.ProfileRepository,
	users repositories.UserRepository,
	audit repositories.AuditRepository,
	mailer VerificationMailer,
) *VerificationService {
	return &VerificationService{
		requests: requests,
		profiles: profiles,
		users:    users,
		audit:    audit,
		mailer:   mailer,
	}
}

// Apply submits a verification application. A user can hold at most one;
// re-applying while one exists is rejected.
func (s *VerificationService) Apply(userID uuid.UUID, req models.ApplyVerificationRequest) (*models.VerificationRequest, error) {
	if existing, err := s.requests.GetByUserID(userID); err == nil {
		return nil, fmt.Errorf("verification request already exists with status %s", existing.Status)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	request := &models.VerificationRequest{
		UserID:           userID,
		Reason:           req.Reason,
		PaymentReference: req.PaymentReference,
	}
	if err := s.requests.CreateRequest(request); err != nil {
		return nil, err
	}
	return request, nil
}

// StatusFor returns the user's application, or nil when none exists.
func (s *VerificationService) StatusFor(userID uuid.UUID) (*models.VerificationRequest, error) {
	request, err := s.requests.GetByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return request, err
}

// All returns every application, newest-first. Admin only.
func (s *VerificationService) All() ([]models.VerificationRequest, error) {
	return s.requests.GetAll()
}

// Approve grants the badge: the request is marked approved, the profile's
// is_verified flag is set, the decision is audited and the applicant mailed.
func (s *VerificationService) Approve(adminID, requestID uuid.UUID, notes string) error {
	request, err := s.requests.GetByID(requestID)
	if err != nil {
		return err
	}
	if request.Status != models.VerificationPending {
		return fmt.Errorf("verification request already reviewed")
	}

	if err := s.requests.Review(requestID, models.VerificationApproved, notes, adminID, time.Now()); err != nil {
		return err
	}
	if err := s.profiles.SetVerified(request.UserID, true); err != nil {
		return fmt.Errorf("request approved but profile flag not set: %w", err)
	}
	if err := s.audit.Record(models.AuditApproveVerification, adminID, &request.UserID, "user",
		map[string]any{"request_id": requestID}); err != nil {
		return fmt.Errorf("request approved but audit write failed: %w", err)
	}

	s.mailOutcome(request.UserID, true, notes)
	return nil
}

// Reject declines the application and audits the decision.
func (s *VerificationService) Reject(adminID, requestID uuid.UUID, notes string) error {
	request, err := s.requests.GetByID(requestID)
	if err != nil {
		return err
	}
	if request.Status != models.VerificationPending {
		return fmt.Errorf("verification request already reviewed")
	}

	if err := s.requests.Review(requestID, models.VerificationRejected, notes, adminID, time.Now()); err != nil {
		return err
	}
	if err := s.audit.Record(models.AuditRejectVerification, adminID, &request.UserID, "user",
		map[string]any{"request_id": requestID}); err != nil {
		return fmt.Errorf("request rejected but audit write failed: %w", err)
	}

	s.mailOutcome(request.UserID, false, notes)
	return nil
}

func (s *VerificationService) mailOutcome(userID uuid.UUID, approved bool, notes string) {
	if s.mailer == nil {
		return
	}
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		log.Printf("verification: lookup user for mail failed: %v", err)
		return
	}
	name := ""
	if prof, err := s.profiles.GetByUserID(userID); err == nil {
		name = prof.Name
	}
	if approved {
		err = s.mailer.SendVerificationApproved(user.Email, name)
	} else {
		err = s.mailer.SendVerificationRejected(user.Email, name, notes)
	}
	if err != nil {
		log.Printf("verification: outcome mail failed: %v", err)
	}
}
