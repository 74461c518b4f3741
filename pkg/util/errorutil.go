package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewInvalidRole flags a role outside the institution's joinable catalog.
func NewInvalidRole(role string) error {
	return NewDomainError("INVALID_ROLE", fmt.Sprintf("role %q is not available to join", role),
		http.StatusBadRequest, map[string]any{"role": role})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewAlreadyJoined signals an idempotent refusal: the membership exists.
func NewAlreadyJoined(institutionID string) error {
	return NewDomainError("ALREADY_JOINED", "already a member of this institution",
		http.StatusConflict, map[string]any{"institution_id": institutionID})
}

// NewDuplicateRoles signals that every submitted role already exists.
func NewDuplicateRoles(duplicates []string) error {
	return NewDomainError("DUPLICATE_ROLES", "all roles already exist",
		http.StatusConflict, map[string]any{"duplicates": duplicates})
}

// NewStoreError wraps a document-store failure.
func NewStoreError(err error) error {
	return &DomainError{
		Code:       "STORE_ERROR",
		Message:    "document store failure",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewIdentityError wraps an authentication provider failure.
func NewIdentityError(message string, err error) error {
	return &DomainError{
		Code:       "IDENTITY_ERROR",
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
		Err:        err,
	}
}

// NewPartialSuccess reports a multi-document flow that completed some
// writes. Details name what succeeded so the caller can reconcile.
func NewPartialSuccess(message string, details map[string]any, err error) error {
	return &DomainError{
		Code:       "PARTIAL_SUCCESS",
		Message:    message,
		HTTPStatus: http.StatusMultiStatus,
		Details:    details,
		Err:        err,
	}
}

// NewMissingProfile signals a credential without a user document.
func NewMissingProfile() error {
	return NewDomainError("MISSING_PROFILE", "no profile exists for this credential",
		http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
