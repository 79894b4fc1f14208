package models

import (
	"time"

	"github.com/google/uuid"
)

// Verification request states
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// VerificationRequest is a paid application for a verified badge, at most one
// per user. Approval flips the profile's is_verified flag.
type VerificationRequest struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID  `json:"user_id" gorm:"type:uuid;uniqueIndex"`
	Reason           string     `json:"reason"`
	PaymentReference string     `json:"payment_reference"`
	Status           string     `json:"status" gorm:"size:20;default:'pending';index"`
	AdminNotes       string     `json:"admin_notes"`
	ReviewedAt       *time.Time `json:"reviewed_at"`
	ReviewedBy       *uuid.UUID `json:"reviewed_by" gorm:"type:uuid"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ApplyVerificationRequest defines the request body for applying
type ApplyVerificationRequest struct {
	Reason           string `json:"reason" validate:"required,min=10,max=500"`
	PaymentReference string `json:"payment_reference" validate:"required,min=4,max=100"`
}

// ReviewVerificationRequest defines the request body for an admin decision
type ReviewVerificationRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=500"`
}
