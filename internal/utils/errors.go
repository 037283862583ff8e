package utils

import "fmt"

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicate    = "DUPLICATE"
	ErrInvalidInput = "INVALID_INPUT"

	// Authentication/Authorization errors
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN" // Caller is authenticated but doesn't own the object
	ErrInvalidToken = "INVALID_TOKEN"

	// Account/profile errors
	ErrAccountExists      = "ACCOUNT_ALREADY_EXISTS"
	ErrProfileNotFound    = "PROFILE_NOT_FOUND"
	ErrProfileExists      = "PROFILE_ALREADY_EXISTS"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Relation errors
	ErrAlreadyFollowing = "ALREADY_FOLLOWING"
	ErrSelfFollow       = "SELF_FOLLOW"

	// Like errors
	ErrLikeConflict = "LIKE_STATE_CONFLICT"

	ErrDatabase = "database_error"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

func NewProfileNotFoundError(profileID string) *AppError {
	return &AppError{
		Code:    ErrProfileNotFound,
		Message: "Profile not found: " + profileID,
	}
}

func NewUnauthorizedError(reason string) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "Unauthorized: " + reason,
	}
}

func NewForbiddenError(action string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: fmt.Sprintf("Not permitted: %s", action),
	}
}

func NewValidationError(detail string) *AppError {
	return &AppError{
		Code:    ErrInvalidInput,
		Message: detail,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// Helper method to check if an error is related to authentication
func IsAuthError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrUnauthorized ||
			appErr.Code == ErrForbidden ||
			appErr.Code == ErrInvalidToken
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound, ErrProfileNotFound:
		return 404 // http.StatusNotFound
	case ErrInvalidInput, ErrLikeConflict, ErrSelfFollow:
		return 400 // http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidToken, ErrInvalidCredentials:
		return 401 // http.StatusUnauthorized
	case ErrForbidden:
		return 403 // http.StatusForbidden
	case ErrDuplicate, ErrAccountExists, ErrProfileExists, ErrAlreadyFollowing:
		return 409 // http.StatusConflict
	case ErrDatabase:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
