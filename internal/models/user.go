package models

import (
	"fmt"

	"gorm.io/gorm"
)

// User is the local projection of the directory entry this service reads
// and writes. Credentials live with the external identity provider; only
// profile, email-verification state and the per-role trust cache are held
// here.
type User struct {
	gorm.Model
	Email         string `gorm:"uniqueIndex;not null"`
	Name          string
	Role          Role   `gorm:"not null;default:'student'"`
	Status        string `gorm:"default:'active'"`
	EmailVerified bool   `gorm:"default:false"`
	TokenVersion  int    `gorm:"default:1"`

	// Trust cache: one slot per verifiable role, written only by the
	// review workflow on approval. nil means no approved verification.
	StudentLevel      *TrustLevel `gorm:"type:smallint"`
	MentorLevel       *TrustLevel `gorm:"type:smallint"`
	EmployerLevel     *TrustLevel `gorm:"type:smallint"`
	InvestorLevel     *TrustLevel `gorm:"type:smallint"`
	SponsorLevel      *TrustLevel `gorm:"type:smallint"`
	EntrepreneurLevel *TrustLevel `gorm:"type:smallint"`
}

// trustSlot maps a role onto its cache slot.
func (u *User) trustSlot(role Role) (**TrustLevel, error) {
	switch role {
	case RoleStudent:
		return &u.StudentLevel, nil
	case RoleMentor:
		return &u.MentorLevel, nil
	case RoleEmployer:
		return &u.EmployerLevel, nil
	case RoleInvestor:
		return &u.InvestorLevel, nil
	case RoleSponsor:
		return &u.SponsorLevel, nil
	case RoleEntrepreneur:
		return &u.EntrepreneurLevel, nil
	default:
		return nil, fmt.Errorf("role %q has no trust slot", role)
	}
}

// TrustLevelFor returns the cached trust level for a role. The second
// return value is false when no level has ever been approved.
func (u *User) TrustLevelFor(role Role) (TrustLevel, bool) {
	slot, err := u.trustSlot(role)
	if err != nil || *slot == nil {
		return 0, false
	}
	return **slot, true
}

// SetTrustLevel writes the cache slot for a role. Only the review workflow
// may call this; the submission path never touches the cache.
func (u *User) SetTrustLevel(role Role, level TrustLevel) error {
	slot, err := u.trustSlot(role)
	if err != nil {
		return err
	}
	l := level
	*slot = &l
	return nil
}
