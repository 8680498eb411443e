// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are mapped to HTTP responses via the `fail()`
// helper in this package, giving clients a stable, machine-readable error
// taxonomy that supplements human-readable messages. Generic codes mirror
// common HTTP status semantics; domain-specific codes cover business
// failures that a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeConflict   = "conflict"
	ErrCodeInternal   = "internal_error"

	// Domain-specific:
	ErrCodeDimensionMismatch = "dimension_mismatch"
	ErrCodeMethodNotAllowed  = "method_not_allowed"
)
