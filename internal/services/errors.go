// Package services defines the business logic for the session ledger, the
// knowledge base, and widget/context settings. This file centralizes the
// service-level error taxonomy so that it can be consistently returned by
// service methods and checked by callers.
//
// Repos return raw driver errors; services translate them into this
// taxonomy before they surface, so callers never branch on storage-engine
// error types. Translation into HTTP statuses happens at the handler layer.
package services

import "errors"

var (
	// ErrValidation indicates malformed input: empty required text, an
	// out-of-range satisfaction rating, an unknown message role.
	ErrValidation = errors.New("invalid input")

	// ErrConflict indicates a unique-key violation on insert, e.g. a
	// username or email that is already taken.
	ErrConflict = errors.New("already exists")

	// ErrNotFound indicates the operation targets a nonexistent record
	// where the contract requires existence (e.g. appending a message to
	// a missing session).
	ErrNotFound = errors.New("not found")

	// ErrDimensionMismatch indicates a query embedding whose length
	// differs from the stored vectors' fixed dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrStorage wraps transaction/connection failures from the backing
	// store.
	ErrStorage = errors.New("storage failure")
)
