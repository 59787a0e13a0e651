package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code and message,
// so errors carrying a cause still match their sentinel value.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithCause returns a copy of the error carrying the given cause. The copy
// compares equal to the original under errors.Is.
func (e *DomainError) WithCause(err error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeInvalidOperation  = "INVALID_OPERATION"
	ErrCodeEmptyCorpus       = "EMPTY_CORPUS"
	ErrCodeEmptyQuery        = "EMPTY_QUERY"
	ErrCodeDimensionMismatch = "DIMENSION_MISMATCH"
	ErrCodeEmbedding         = "EMBEDDING_ERROR"
)

// Retrieval errors. EmptyCorpus and EmptyQuery are client-input errors;
// DimensionMismatch and Embedding indicate infrastructure or version
// problems between ingestion and query time.
var (
	ErrEmptyCorpus       = NewDomainError(ErrCodeEmptyCorpus, "document has no extractable sentences")
	ErrEmptyQuery        = NewDomainError(ErrCodeEmptyQuery, "query text is empty")
	ErrDimensionMismatch = NewDomainError(ErrCodeDimensionMismatch, "embedding dimensionality mismatch")
	ErrEmbedding         = NewDomainError(ErrCodeEmbedding, "embedding capability failed")
)

// Validation errors
var (
	ErrInvalidSummaryJobStatus = NewDomainError(ErrCodeValidation, "invalid summary job status")
	ErrMissingRequiredField    = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrUserNotFound    = NewDomainError(ErrCodeNotFound, "user not found")
	ErrChatNotFound    = NewDomainError(ErrCodeNotFound, "chat not found")
	ErrMessageNotFound = NewDomainError(ErrCodeNotFound, "message not found")
)

// Already exists errors
var (
	ErrEmailAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "account with this email already exists")
)

// Authorization errors
var (
	ErrInvalidCredentials = NewDomainError(ErrCodeUnauthorized, "incorrect credentials")
	ErrEmailNotVerified   = NewDomainError(ErrCodeUnauthorized, "email is not verified")
	ErrInvalidToken       = NewDomainError(ErrCodeUnauthorized, "invalid or expired token")
)

// Operation errors
var (
	ErrAlreadyVerified = NewDomainError(ErrCodeInvalidOperation, "user is already verified")
	ErrChatNotOwned    = NewDomainError(ErrCodeForbidden, "chat does not belong to this user")
)
