package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// IdentityProof is a government-issued identity document reference.
type IdentityProof struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number,omitempty"` // sensitive, stored encrypted
	DocumentURL    string `json:"document_url"`
}

// EducationInfo backs student verification.
type EducationInfo struct {
	Institution    string `json:"institution"`
	Program        string `json:"program"`
	EnrollmentYear int    `json:"enrollment_year,omitempty"`
	TranscriptURL  string `json:"transcript_url,omitempty"`
}

// ProfessionalCredentials backs mentor verification.
type ProfessionalCredentials struct {
	Title           string   `json:"title"`
	YearsExperience int      `json:"years_experience,omitempty"`
	CertificateURLs []string `json:"certificate_urls,omitempty"`
	LinkedInURL     string   `json:"linkedin_url,omitempty"`
}

// BankDetails carries payout account information.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`           // sensitive, stored encrypted
	RoutingNumber string `json:"routing_number,omitempty"` // sensitive, stored encrypted
}

// CompanyKYC backs employer verification.
type CompanyKYC struct {
	LegalName          string `json:"legal_name"`
	RegistrationNumber string `json:"registration_number"` // sensitive, stored encrypted
	Country            string `json:"country,omitempty"`
	RegistrationDocURL string `json:"registration_doc_url"`
}

// TaxCompliance backs investor verification.
type TaxCompliance struct {
	TaxID          string `json:"tax_id"` // sensitive, stored encrypted
	Country        string `json:"country,omitempty"`
	TaxDocumentURL string `json:"tax_document_url,omitempty"`
}

// SponsorKYC backs sponsor verification.
type SponsorKYC struct {
	OrganizationName   string `json:"organization_name"`
	RegistrationNumber string `json:"registration_number,omitempty"` // sensitive, stored encrypted
	AgreementURL       string `json:"agreement_url"`
}

// AddressProof is a proof-of-address document reference.
type AddressProof struct {
	DocumentURL string `json:"document_url"`
	Country     string `json:"country,omitempty"`
	City        string `json:"city,omitempty"`
}

// VideoVerification is a completed live video check.
type VideoVerification struct {
	RecordingURL string     `json:"recording_url"`
	RecordedAt   *time.Time `json:"recorded_at,omitempty"`
}

// RoleDetails is the role-specific part of an evidence bundle. Exactly one
// concrete type exists per verifiable role, so an employer's company papers
// can never appear on a student's record.
type RoleDetails interface {
	DetailsRole() Role
}

type StudentDetails struct {
	Education *EducationInfo `json:"education,omitempty"`
}

func (StudentDetails) DetailsRole() Role { return RoleStudent }

type MentorDetails struct {
	Professional *ProfessionalCredentials `json:"professional_credentials,omitempty"`
	Bank         *BankDetails             `json:"bank_details,omitempty"`
}

func (MentorDetails) DetailsRole() Role { return RoleMentor }

type EmployerDetails struct {
	Company *CompanyKYC `json:"company_kyc,omitempty"`
}

func (EmployerDetails) DetailsRole() Role { return RoleEmployer }

type InvestorDetails struct {
	Tax  *TaxCompliance `json:"tax_compliance,omitempty"`
	Bank *BankDetails   `json:"bank_details,omitempty"`
}

func (InvestorDetails) DetailsRole() Role { return RoleInvestor }

type SponsorDetails struct {
	Sponsor *SponsorKYC `json:"sponsor_kyc,omitempty"`
}

func (SponsorDetails) DetailsRole() Role { return RoleSponsor }

// EntrepreneurDetails is intentionally empty: no tier-2 evidence is defined
// for entrepreneurs.
type EntrepreneurDetails struct{}

func (EntrepreneurDetails) DetailsRole() Role { return RoleEntrepreneur }

// EvidenceBundle is one submission's worth of proof sections. Identity,
// address and video sections are common to all roles; Details holds the
// role-specific part.
type EvidenceBundle struct {
	Identity *IdentityProof
	Address  *AddressProof
	Video    *VideoVerification
	Details  RoleDetails
}

// ErrMixedRoleEvidence is returned when a payload carries sections for more
// than one role.
var ErrMixedRoleEvidence = errors.New("evidence bundle carries details for more than one role")

type evidenceEnvelope struct {
	Identity *IdentityProof     `json:"identity_proof,omitempty"`
	Address  *AddressProof      `json:"address_proof,omitempty"`
	Video    *VideoVerification `json:"video_verification,omitempty"`

	Student      *StudentDetails      `json:"student,omitempty"`
	Mentor       *MentorDetails       `json:"mentor,omitempty"`
	Employer     *EmployerDetails     `json:"employer,omitempty"`
	Investor     *InvestorDetails     `json:"investor,omitempty"`
	Sponsor      *SponsorDetails      `json:"sponsor,omitempty"`
	Entrepreneur *EntrepreneurDetails `json:"entrepreneur,omitempty"`
}

func (b EvidenceBundle) MarshalJSON() ([]byte, error) {
	env := evidenceEnvelope{
		Identity: b.Identity,
		Address:  b.Address,
		Video:    b.Video,
	}
	switch d := b.Details.(type) {
	case nil:
	case StudentDetails:
		env.Student = &d
	case MentorDetails:
		env.Mentor = &d
	case EmployerDetails:
		env.Employer = &d
	case InvestorDetails:
		env.Investor = &d
	case SponsorDetails:
		env.Sponsor = &d
	case EntrepreneurDetails:
		env.Entrepreneur = &d
	default:
		return nil, fmt.Errorf("unknown role details type %T", b.Details)
	}
	return json.Marshal(env)
}

func (b *EvidenceBundle) UnmarshalJSON(data []byte) error {
	var env evidenceEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	b.Identity = env.Identity
	b.Address = env.Address
	b.Video = env.Video
	b.Details = nil

	count := 0
	if env.Student != nil {
		b.Details = *env.Student
		count++
	}
	if env.Mentor != nil {
		b.Details = *env.Mentor
		count++
	}
	if env.Employer != nil {
		b.Details = *env.Employer
		count++
	}
	if env.Investor != nil {
		b.Details = *env.Investor
		count++
	}
	if env.Sponsor != nil {
		b.Details = *env.Sponsor
		count++
	}
	if env.Entrepreneur != nil {
		b.Details = *env.Entrepreneur
		count++
	}
	if count > 1 {
		return ErrMixedRoleEvidence
	}
	return nil
}

// Value implements the driver.Valuer interface for jsonb storage.
func (b EvidenceBundle) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements the sql.Scanner interface.
func (b *EvidenceBundle) Scan(value interface{}) error {
	if value == nil {
		*b = EvidenceBundle{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into EvidenceBundle", value)
		}
	}
	return json.Unmarshal(bytes, b)
}

// FieldCipher transforms individual sensitive string fields. The concrete
// implementation lives in the crypto package; evidence code only needs the
// two operations.
type FieldCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(blob string) (string, error)
}

// sensitiveFields returns pointers to every field that must be ciphertext
// at rest. Empty fields are included; the cipher passes them through.
func (b *EvidenceBundle) sensitiveFields() []*string {
	var fields []*string
	if b.Identity != nil {
		fields = append(fields, &b.Identity.DocumentNumber)
	}
	switch d := b.Details.(type) {
	case MentorDetails:
		if d.Bank != nil {
			fields = append(fields, &d.Bank.AccountNumber, &d.Bank.RoutingNumber)
		}
	case EmployerDetails:
		if d.Company != nil {
			fields = append(fields, &d.Company.RegistrationNumber)
		}
	case InvestorDetails:
		if d.Tax != nil {
			fields = append(fields, &d.Tax.TaxID)
		}
		if d.Bank != nil {
			fields = append(fields, &d.Bank.AccountNumber, &d.Bank.RoutingNumber)
		}
	case SponsorDetails:
		if d.Sponsor != nil {
			fields = append(fields, &d.Sponsor.RegistrationNumber)
		}
	}
	return fields
}

// EncryptSensitive replaces every sensitive field with its ciphertext blob.
func (b *EvidenceBundle) EncryptSensitive(fc FieldCipher) error {
	for _, f := range b.sensitiveFields() {
		enc, err := fc.Encrypt(*f)
		if err != nil {
			return err
		}
		*f = enc
	}
	return nil
}

// DecryptSensitive restores every sensitive field to plaintext. A failed
// decryption aborts the whole bundle; partial plaintext is never returned.
func (b *EvidenceBundle) DecryptSensitive(fc FieldCipher) error {
	for _, f := range b.sensitiveFields() {
		dec, err := fc.Decrypt(*f)
		if err != nil {
			return err
		}
		*f = dec
	}
	return nil
}
