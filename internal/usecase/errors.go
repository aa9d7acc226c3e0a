package usecase

import "errors"

// Error codes carried in API error responses.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidStatus = "INVALID_STATUS"
	CodeNoFields      = "NO_FIELDS"
	CodeDatabase      = "DATABASE_ERROR"
	CodeSendFailed    = "SEND_FAILED"
)

// DomainError is a caller mistake such as bad input or an unknown status.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps a storage or transport failure.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func validationError(message string) error {
	return &DomainError{Code: CodeValidation, Message: message}
}

func invalidStatusError(message string) error {
	return &DomainError{Code: CodeInvalidStatus, Message: message}
}

func databaseError(message string, err error) error {
	return &TechnicalError{Code: CodeDatabase, Message: message, Err: err}
}
