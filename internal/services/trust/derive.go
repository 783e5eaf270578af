package trust

import "veritier/internal/models"

// DeriveOptions controls how tier predicates combine.
type DeriveOptions struct {
	// CumulativeTiers requires every lower tier to hold before a higher
	// tier can take effect. Off by default: the shipped behavior evaluates
	// each tier independently and keeps whichever was satisfied last, so a
	// bundle with address proof and video verification reaches L3 even
	// without identity evidence. Whether that is the intended policy is a
	// product decision; this toggle is the alternative reading.
	CumulativeTiers bool
}

// DeriveLevel maps a role, the principal's email-verification state and an
// evidence bundle onto a trust level. Pure function; no side effects.
//
// Tiers are evaluated in ascending order and each satisfied predicate
// raises the candidate level:
//
//	L0  email verified
//	L1  identity proof present with a document reference
//	L2  role-specific credentials complete
//	L3  address proof and video verification both present
//
// The second return value is false when no tier predicate holds at all.
func DeriveLevel(role models.Role, emailVerified bool, evidence models.EvidenceBundle, opts DeriveOptions) (models.TrustLevel, bool) {
	satisfied := [4]bool{
		emailVerified,
		evidence.Identity != nil && evidence.Identity.DocumentURL != "",
		roleCredentialsComplete(role, evidence.Details),
		evidence.Address != nil && evidence.Video != nil,
	}

	level := models.TrustLevel(0)
	found := false
	for tier, ok := range satisfied {
		if !ok {
			if opts.CumulativeTiers {
				break
			}
			continue
		}
		level = models.TrustLevel(tier)
		found = true
	}
	return level, found
}

// roleCredentialsComplete is the L2 predicate. Each role names the sections
// it needs; entrepreneurs have no L2 evidence defined, so they can only
// reach L1 or jump to L3.
func roleCredentialsComplete(role models.Role, details models.RoleDetails) bool {
	if details == nil || details.DetailsRole() != role {
		return false
	}
	switch d := details.(type) {
	case models.StudentDetails:
		return d.Education != nil
	case models.MentorDetails:
		return d.Professional != nil && d.Bank != nil
	case models.EmployerDetails:
		return d.Company != nil
	case models.InvestorDetails:
		return d.Tax != nil && d.Bank != nil
	case models.SponsorDetails:
		return d.Sponsor != nil
	case models.EntrepreneurDetails:
		return false
	default:
		return false
	}
}
