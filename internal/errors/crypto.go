package errors

var (
	ErrCiphertextMalformed = &DomainError{
		Code:    "CIPHERTEXT_MALFORMED",
		Message: "ciphertext blob is truncated or malformed",
	}
	ErrDecryptionFailed = &DomainError{
		Code:    "DECRYPTION_FAILED",
		Message: "ciphertext failed authentication",
	}
)
