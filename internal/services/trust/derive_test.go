package trust

import (
	"testing"

	"veritier/internal/models"

	"github.com/stretchr/testify/assert"
)

func identityWithDoc() *models.IdentityProof {
	return &models.IdentityProof{
		DocumentType: "passport",
		DocumentURL:  "https://docs.example.com/passport.pdf",
	}
}

func TestDeriveLevel_EmailOnly(t *testing.T) {
	// Scenario: student with nothing but a verified email.
	level, ok := DeriveLevel(models.RoleStudent, true, models.EvidenceBundle{}, DeriveOptions{})
	assert.True(t, ok)
	assert.Equal(t, models.Level0, level)
}

func TestDeriveLevel_NothingSatisfied(t *testing.T) {
	_, ok := DeriveLevel(models.RoleStudent, false, models.EvidenceBundle{}, DeriveOptions{})
	assert.False(t, ok)
}

func TestDeriveLevel_IdentityNeedsDocumentReference(t *testing.T) {
	bundle := models.EvidenceBundle{
		Identity: &models.IdentityProof{DocumentType: "passport"},
	}
	level, ok := DeriveLevel(models.RoleStudent, true, bundle, DeriveOptions{})
	assert.True(t, ok)
	assert.Equal(t, models.Level0, level, "identity proof without a document URL does not reach L1")

	bundle.Identity.DocumentURL = "https://docs.example.com/id.pdf"
	level, _ = DeriveLevel(models.RoleStudent, true, bundle, DeriveOptions{})
	assert.Equal(t, models.Level1, level)
}

func TestDeriveLevel_MentorFullBundle(t *testing.T) {
	// Scenario: mentor with identity proof, credentials and bank details.
	bundle := models.EvidenceBundle{
		Identity: identityWithDoc(),
		Details: models.MentorDetails{
			Professional: &models.ProfessionalCredentials{Title: "Staff Engineer"},
			Bank:         &models.BankDetails{BankName: "First", AccountName: "J", AccountNumber: "123"},
		},
	}
	level, ok := DeriveLevel(models.RoleMentor, true, bundle, DeriveOptions{})
	assert.True(t, ok)
	assert.Equal(t, models.Level2, level)
}

func TestDeriveLevel_MentorNeedsBothSections(t *testing.T) {
	bundle := models.EvidenceBundle{
		Identity: identityWithDoc(),
		Details: models.MentorDetails{
			Professional: &models.ProfessionalCredentials{Title: "Staff Engineer"},
		},
	}
	level, _ := DeriveLevel(models.RoleMentor, true, bundle, DeriveOptions{})
	assert.Equal(t, models.Level1, level, "credentials without bank details stay at L1")
}

func TestDeriveLevel_EntrepreneurJumpsToL3(t *testing.T) {
	// Scenario: entrepreneur with address proof and video verification but
	// no identity proof. The sequential evaluation lands on L3 even though
	// L1 evidence is missing.
	bundle := models.EvidenceBundle{
		Address: &models.AddressProof{DocumentURL: "https://docs.example.com/bill.pdf"},
		Video:   &models.VideoVerification{RecordingURL: "https://docs.example.com/call.mp4"},
		Details: models.EntrepreneurDetails{},
	}
	level, ok := DeriveLevel(models.RoleEntrepreneur, true, bundle, DeriveOptions{})
	assert.True(t, ok)
	assert.Equal(t, models.Level3, level)
}

func TestDeriveLevel_EntrepreneurHasNoL2(t *testing.T) {
	bundle := models.EvidenceBundle{
		Identity: identityWithDoc(),
		Details:  models.EntrepreneurDetails{},
	}
	level, _ := DeriveLevel(models.RoleEntrepreneur, true, bundle, DeriveOptions{})
	assert.Equal(t, models.Level1, level)
}

func TestDeriveLevel_PerRoleCredentials(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		details models.RoleDetails
		want    models.TrustLevel
	}{
		{
			name: "student with education",
			role: models.RoleStudent,
			details: models.StudentDetails{
				Education: &models.EducationInfo{Institution: "MIT", Program: "CS"},
			},
			want: models.Level2,
		},
		{
			name: "employer with company kyc",
			role: models.RoleEmployer,
			details: models.EmployerDetails{
				Company: &models.CompanyKYC{LegalName: "Acme Inc", RegistrationNumber: "R-1", RegistrationDocURL: "https://x/r.pdf"},
			},
			want: models.Level2,
		},
		{
			name: "investor with tax and bank",
			role: models.RoleInvestor,
			details: models.InvestorDetails{
				Tax:  &models.TaxCompliance{TaxID: "99-1234"},
				Bank: &models.BankDetails{BankName: "First", AccountName: "A", AccountNumber: "42"},
			},
			want: models.Level2,
		},
		{
			name: "investor with tax only",
			role: models.RoleInvestor,
			details: models.InvestorDetails{
				Tax: &models.TaxCompliance{TaxID: "99-1234"},
			},
			want: models.Level1,
		},
		{
			name: "sponsor with kyc",
			role: models.RoleSponsor,
			details: models.SponsorDetails{
				Sponsor: &models.SponsorKYC{OrganizationName: "Give Corp", AgreementURL: "https://x/a.pdf"},
			},
			want: models.Level2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := models.EvidenceBundle{
				Identity: identityWithDoc(),
				Details:  tt.details,
			}
			level, ok := DeriveLevel(tt.role, true, bundle, DeriveOptions{})
			assert.True(t, ok)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestDeriveLevel_DetailsForWrongRoleIgnored(t *testing.T) {
	bundle := models.EvidenceBundle{
		Identity: identityWithDoc(),
		Details: models.StudentDetails{
			Education: &models.EducationInfo{Institution: "MIT"},
		},
	}
	level, _ := DeriveLevel(models.RoleMentor, true, bundle, DeriveOptions{})
	assert.Equal(t, models.Level1, level, "student sections never satisfy the mentor predicate")
}

func TestDeriveLevel_CumulativeTiers(t *testing.T) {
	opts := DeriveOptions{CumulativeTiers: true}

	// The entrepreneur jump is closed under cumulative evaluation.
	bundle := models.EvidenceBundle{
		Address: &models.AddressProof{DocumentURL: "https://x/bill.pdf"},
		Video:   &models.VideoVerification{RecordingURL: "https://x/call.mp4"},
	}
	level, ok := DeriveLevel(models.RoleEntrepreneur, true, bundle, opts)
	assert.True(t, ok)
	assert.Equal(t, models.Level0, level)

	// A complete chain still climbs.
	full := models.EvidenceBundle{
		Identity: identityWithDoc(),
		Address:  &models.AddressProof{DocumentURL: "https://x/bill.pdf"},
		Video:    &models.VideoVerification{RecordingURL: "https://x/call.mp4"},
		Details: models.StudentDetails{
			Education: &models.EducationInfo{Institution: "MIT"},
		},
	}
	level, ok = DeriveLevel(models.RoleStudent, true, full, opts)
	assert.True(t, ok)
	assert.Equal(t, models.Level3, level)

	// Unverified email blocks everything in cumulative mode.
	_, ok = DeriveLevel(models.RoleStudent, false, full, opts)
	assert.False(t, ok)
}
