package models

import (
	"time"

	"gorm.io/gorm"
)

// VerificationRecord holds one user's verification state for one role.
// Exactly one record exists per (user, role) pair; re-submissions reuse the
// record, resetting it to pending.
type VerificationRecord struct {
	gorm.Model
	Reference   string             `gorm:"uniqueIndex;not null" json:"reference"`
	UserID      uint               `gorm:"not null;uniqueIndex:idx_verifications_user_role" json:"user_id"`
	Role        Role               `gorm:"not null;uniqueIndex:idx_verifications_user_role" json:"role"`
	Level       TrustLevel         `gorm:"not null" json:"level"`
	Status      VerificationStatus `gorm:"not null;default:'pending'" json:"status"`
	Evidence    EvidenceBundle     `gorm:"type:jsonb" json:"evidence"`
	SubmittedAt time.Time          `gorm:"not null;index" json:"submitted_at"`

	// Review audit fields, set only by the admin workflow.
	ReviewedBy      *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	AdminNotes      string     `json:"admin_notes,omitempty"`
}
