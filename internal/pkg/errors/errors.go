package errors

import "errors"

// Sentinel errors shared by the repositories and services. Every error the core
// surfaces wraps exactly one of these so the HTTP layer can translate it with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrQuotaExceeded   = errors.New("storage quota exceeded")
	ErrConflict        = errors.New("conflict")
	ErrUpstreamStorage = errors.New("upstream storage failure")
	ErrValidation      = errors.New("validation failed")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
