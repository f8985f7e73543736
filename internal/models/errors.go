package models

import "errors"

// Error taxonomy for the unified surface. Mapping-table misses and malformed
// input fail before any native call; native failures map to the closest kind
// and are never retried here.
var (
	// ErrNotAvailable: the health service is absent or unsupported on this
	// device. Terminal for the session; every operation short-circuits.
	ErrNotAvailable = errors.New("health service not available")

	// ErrPermissionDenied: the native authorization call failed or was
	// explicitly refused.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnsupportedDataType: a unified type, workout type, or sleep stage
	// has no mapping-table entry for the active platform.
	ErrUnsupportedDataType = errors.New("unsupported data type")

	// ErrInvalidParameters: malformed or missing required request fields.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrHealthServiceNotInstalled: the health store app/service is not
	// installed. Distinct from ErrNotAvailable, which covers incapability.
	ErrHealthServiceNotInstalled = errors.New("health service not installed")

	// ErrReadFailed: the native query executed but the store reported failure.
	ErrReadFailed = errors.New("read failed")

	// ErrWriteFailed: the native insert executed but the store reported failure.
	ErrWriteFailed = errors.New("write failed")

	// ErrUnknown: uncategorized native failure; the message carries whatever
	// diagnostics the platform surfaced.
	ErrUnknown = errors.New("unknown health service error")
)
