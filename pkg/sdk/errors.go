package findmyfood

import "github.com/kailas-cloud/findmyfood/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound             = domain.ErrNotFound
	ErrInvalidRequest       = domain.ErrInvalidRequest
	ErrContentUnavailable   = domain.ErrContentUnavailable
	ErrContentQuotaExceeded = domain.ErrContentQuotaExceeded
	ErrAlternateUnavailable = domain.ErrAlternateUnavailable
	ErrDatasetInvalid       = domain.ErrDatasetInvalid
)
