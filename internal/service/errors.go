// Package service implements the reminder core: time resolution,
// validated CRUD over the reminder collection, and the due-reminder
// scheduler.
package service

import "errors"

// Sentinel errors returned by service operations. Callers check them
// with errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrValidation indicates a create call missing a required field
	// (list id, resolvable due date).
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates the acting user does not own the list
	// addressed by the operation.
	ErrUnauthorized = errors.New("acting user does not own this list")

	// ErrNotOwned indicates a reminder exists but belongs to a
	// different user than the caller.
	ErrNotOwned = errors.New("reminder is owned by another user")

	// ErrIntegrity indicates a duplicate uid within a list. Unreachable
	// while uids stay unique, checked defensively anyway.
	ErrIntegrity = errors.New("duplicate reminder uid")

	// ErrNotFound indicates a list or reminder lookup found nothing.
	// Update and remove treat item misses as logged no-ops instead.
	ErrNotFound = errors.New("not found")

	// ErrBadDate indicates a due date string that could not be parsed.
	ErrBadDate = errors.New("malformed date")
)
