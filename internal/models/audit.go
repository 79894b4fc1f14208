package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Audit action names
const (
	AuditApproveVerification = "approve_verification"
	AuditRejectVerification  = "reject_verification"
	AuditApproveConfession   = "approve_confession"
	AuditRejectConfession    = "reject_confession"
	AuditSuspendUser         = "suspend_user"
	AuditUnsuspendUser       = "unsuspend_user"
	AuditBroadcast           = "broadcast_notification"
)

// AuditLog is an append-only record of an admin action
type AuditLog struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Action     string         `json:"action" gorm:"size:50;index"`
	AdminID    *uuid.UUID     `json:"admin_id" gorm:"type:uuid;index"`
	TargetID   *uuid.UUID     `json:"target_id" gorm:"type:uuid"`
	TargetType string         `json:"target_type" gorm:"size:20"` // user, confession, notification
	Details    datatypes.JSON `json:"details"`
	CreatedAt  time.Time      `json:"created_at" gorm:"index"`
}
