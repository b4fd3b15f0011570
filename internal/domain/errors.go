package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals a malformed or out-of-range request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrContentUnavailable signals that the content source could not produce a result.
	// It is recoverable: the same request may succeed on retry.
	ErrContentUnavailable = errors.New("content source unavailable")
	// ErrContentQuotaExceeded signals that the content token budget is spent.
	ErrContentQuotaExceeded = errors.New("content token budget exceeded")
	// ErrAlternateUnavailable signals that the alternate recommendation engine
	// produced no usable result, for whatever reason.
	ErrAlternateUnavailable = errors.New("alternate engine unavailable")
	// ErrDatasetInvalid signals a rating dataset that failed validation.
	ErrDatasetInvalid = errors.New("invalid rating dataset")
)
