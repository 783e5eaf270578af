package errors

var (
	ErrInvalidRole = &DomainError{
		Code:    "INVALID_ROLE",
		Message: "role is not eligible for verification",
	}
	ErrVerificationNotFound = &DomainError{
		Code:    "VERIFICATION_NOT_FOUND",
		Message: "verification record not found",
	}
	ErrVerificationConflict = &DomainError{
		Code:    "VERIFICATION_CONFLICT",
		Message: "verification record already exists for this user and role",
	}
	ErrRejectionReasonRequired = &DomainError{
		Code:    "REJECTION_REASON_REQUIRED",
		Message: "a rejection reason is required",
	}
	ErrReviewStateInvalid = &DomainError{
		Code:    "REVIEW_STATE_INVALID",
		Message: "verification is already finalized with a different decision",
	}
	ErrEvidenceRoleMismatch = &DomainError{
		Code:    "EVIDENCE_ROLE_MISMATCH",
		Message: "evidence bundle belongs to a different role",
	}
	ErrNoQualifyingEvidence = &DomainError{
		Code:    "NO_QUALIFYING_EVIDENCE",
		Message: "submission satisfies no trust level requirement",
	}
	ErrInsufficientTrustLevel = &DomainError{
		Code:    "INSUFFICIENT_TRUST_LEVEL",
		Message: "trust level requirement not met",
	}
	ErrStoreUnavailable = &DomainError{
		Code:    "STORE_UNAVAILABLE",
		Message: "verification store is unavailable, retry later",
	}
)
