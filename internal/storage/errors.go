package storage

import (
	"github.com/dukerupert/nursery/internal/domain"
)

// ============================================================================
// STORAGE DOMAIN ERRORS
// ============================================================================

var (
	// ErrR2AccountIDRequired is returned when R2 account ID is missing.
	ErrR2AccountIDRequired = &domain.Error{Code: domain.EINVALID, Op: "storage.r2", Message: "R2 account ID is required"}

	// ErrR2CredentialsRequired is returned when R2 credentials are missing.
	ErrR2CredentialsRequired = &domain.Error{Code: domain.EINVALID, Op: "storage.r2", Message: "R2 credentials are required"}

	// ErrR2BucketRequired is returned when R2 bucket name is missing.
	ErrR2BucketRequired = &domain.Error{Code: domain.EINVALID, Op: "storage.r2", Message: "R2 bucket name is required"}
)

// ErrUnknownProvider creates an error for unknown storage providers.
func ErrUnknownProvider(provider string) error {
	return domain.Errorf(domain.EINVALID, "storage.new", "unknown storage provider: %s", provider)
}
