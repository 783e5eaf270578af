package errors

// DomainError is a stable, machine-readable application error.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}
