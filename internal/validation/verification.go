package validation

import "veritier/internal/models"

const maxURLLength = 2048

// ValidateSubmission checks the structural validity of a submission.
// Whether the evidence earns a level is the derivation's job; this only
// rejects input that is malformed on its face.
func ValidateSubmission(role models.Role, evidence *models.EvidenceBundle) *Validator {
	v := New()

	v.Required("role", string(role))
	v.Check(role == "" || role.Verifiable(), "role", "is not eligible for verification")

	if evidence.Identity != nil {
		v.Required("evidence.identity_proof.document_type", evidence.Identity.DocumentType)
		v.MaxLength("evidence.identity_proof.document_url", evidence.Identity.DocumentURL, maxURLLength)
	}
	if evidence.Address != nil {
		v.Required("evidence.address_proof.document_url", evidence.Address.DocumentURL)
		v.MaxLength("evidence.address_proof.document_url", evidence.Address.DocumentURL, maxURLLength)
	}
	if evidence.Video != nil {
		v.Required("evidence.video_verification.recording_url", evidence.Video.RecordingURL)
		v.MaxLength("evidence.video_verification.recording_url", evidence.Video.RecordingURL, maxURLLength)
	}

	switch d := evidence.Details.(type) {
	case models.StudentDetails:
		if d.Education != nil {
			v.Required("evidence.student.education.institution", d.Education.Institution)
		}
	case models.MentorDetails:
		if d.Bank != nil {
			v.Required("evidence.mentor.bank_details.account_number", d.Bank.AccountNumber)
		}
	case models.EmployerDetails:
		if d.Company != nil {
			v.Required("evidence.employer.company_kyc.legal_name", d.Company.LegalName)
			v.Required("evidence.employer.company_kyc.registration_doc_url", d.Company.RegistrationDocURL)
		}
	case models.InvestorDetails:
		if d.Tax != nil {
			v.Required("evidence.investor.tax_compliance.tax_id", d.Tax.TaxID)
		}
		if d.Bank != nil {
			v.Required("evidence.investor.bank_details.account_number", d.Bank.AccountNumber)
		}
	case models.SponsorDetails:
		if d.Sponsor != nil {
			v.Required("evidence.sponsor.sponsor_kyc.organization_name", d.Sponsor.OrganizationName)
			v.Required("evidence.sponsor.sponsor_kyc.agreement_url", d.Sponsor.AgreementURL)
		}
	}

	return v
}
