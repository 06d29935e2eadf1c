package domain

import "errors"

// ErrSessionNotFound is returned when a session ID is not known to the registry.
var ErrSessionNotFound = errors.New("session not found")

// ErrSnapshotNotFound is returned when a snapshot store has no entry for a session ID.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrExerciseNotFound is returned when the catalog has no exercise with the requested ID.
var ErrExerciseNotFound = errors.New("exercise not found")

// ErrInvalidCatalog is returned when catalog content cannot be loaded or violates its structural rules.
// Hosts treat it as a fatal configuration error.
var ErrInvalidCatalog = errors.New("invalid catalog")

// ErrMalformedPayload is returned when a drag payload cannot be decoded into a valid envelope.
var ErrMalformedPayload = errors.New("malformed drag payload")
