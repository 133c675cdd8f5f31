package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/result-academic/records-service/internal/validator"
)

// ValidationError types are shared with the validator package.
type ValidationError = validator.ValidationError
type ValidationErrors = validator.ValidationErrors

// Sentinel errors mapped to 404 by the handlers.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrRoleNotFound        = errors.New("role not found")
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrPublicationNotFound = errors.New("publication not found")
	ErrAwardNotFound       = errors.New("award not found")
	ErrRecognitionNotFound = errors.New("recognition not found")
	ErrEventNotFound       = errors.New("event not found")
)

// Auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// PermissionError indicates the acting user is not allowed to perform the
// operation. Mapped to 403.
type PermissionError struct {
	UserID   uint
	Resource string
	Action   string
	Reason   string
}

func NewPermissionError(userID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

// ConflictError indicates the operation conflicts with current state.
// Mapped to 409.
type ConflictError struct {
	Message string
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func (e *ConflictError) Error() string {
	return e.Message
}

// BusinessRuleError indicates a domain rule violation. Mapped to 422.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Message)
}

// isNotFound reports whether err is a gorm record-not-found error.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
