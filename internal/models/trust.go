package models

import "fmt"

// TrustLevel is a discrete tier of verified trust for a user acting in a
// given role. Levels are ordered and compared with >= only.
type TrustLevel int16

const (
	Level0 TrustLevel = 0 // email verified
	Level1 TrustLevel = 1 // government ID on file
	Level2 TrustLevel = 2 // role-specific credentials verified
	Level3 TrustLevel = 3 // address proof + video verification

	MaxTrustLevel = Level3
)

// Valid reports whether l is one of the defined levels.
func (l TrustLevel) Valid() bool {
	return l >= Level0 && l <= MaxTrustLevel
}

func (l TrustLevel) String() string {
	if !l.Valid() {
		return fmt.Sprintf("L?(%d)", int16(l))
	}
	return fmt.Sprintf("L%d", int16(l))
}

// Role identifies the capacity a user is being verified for.
type Role string

const (
	RoleStudent      Role = "student"
	RoleMentor       Role = "mentor"
	RoleEmployer     Role = "employer"
	RoleInvestor     Role = "investor"
	RoleSponsor      Role = "sponsor"
	RoleEntrepreneur Role = "entrepreneur"

	// RoleAdmin exists on user accounts but is excluded from the
	// verification flow; admins are provisioned out-of-band.
	RoleAdmin Role = "admin"
)

// VerifiableRoles lists every role that can go through verification.
func VerifiableRoles() []Role {
	return []Role{
		RoleStudent,
		RoleMentor,
		RoleEmployer,
		RoleInvestor,
		RoleSponsor,
		RoleEntrepreneur,
	}
}

// Verifiable reports whether the role participates in the verification flow.
func (r Role) Verifiable() bool {
	switch r {
	case RoleStudent, RoleMentor, RoleEmployer, RoleInvestor, RoleSponsor, RoleEntrepreneur:
		return true
	default:
		return false
	}
}

// VerificationStatus is the review state of a verification record.
type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusApproved VerificationStatus = "approved"
	StatusRejected VerificationStatus = "rejected"
)
