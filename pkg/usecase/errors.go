package usecase

import (
	"errors"

	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrProfileNotFound    = errors.New("user profile not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInitiativeNotFound = errors.New("initiative not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrMasterNotFound     = errors.New("master item not found")

	// Access control errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrAccessDenied     = errors.New("access denied to initiative")

	// Seeding errors
	ErrAccountProvisionFailed = errors.New("failed to provision account")

	// Configuration errors
	ErrStorageNotConfigured  = errors.New("blob storage is not configured")
	ErrIdentityNotConfigured = errors.New("identity provider is not configured")
)

// Context keys for error values
const (
	InitiativeIDKey = "initiative_id"
	TaskIDKey       = "task_id"
	AttachmentIDKey = "attachment_id"
	UserIDKey       = "user_id"
	OperationKey    = "operation"
)

// IsNotFound reports whether err is one of the not-found errors
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrProfileNotFound,
		ErrUserNotFound,
		ErrInitiativeNotFound,
		ErrTaskNotFound,
		ErrAttachmentNotFound,
		ErrMasterNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsClientError reports whether err is caused by the request rather than
// the backend
func IsClientError(err error) bool {
	return IsNotFound(err) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, model.ErrValidation)
}
