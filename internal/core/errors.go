package core

import "errors"

var (
	// ErrStoreUnavailable wraps any failed registry read, listing or write.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrPreconditionViolation means a replica query document parsed
	// without yielding a replica query rule.
	ErrPreconditionViolation = errors.New("precondition violation")
	// ErrMalformedConfiguration means a schema's rule text failed to parse.
	ErrMalformedConfiguration = errors.New("malformed configuration")
	// ErrInvalidName means a write named an instance, schema or data source
	// that cannot be stored as a single registry path segment.
	ErrInvalidName = errors.New("invalid name")
)
