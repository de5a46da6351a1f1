package scloudplus

import "errors"

// Sentinel errors returned by Context methods, one per taxonomy kind. Use
// errors.Is to test for them; wrapped errors carry one of these as their
// root cause via fmt.Errorf's %w.
var (
	// ErrNullInput is returned when a required argument is nil or the
	// context lacks a prerequisite: no parameter set chosen, or no key
	// material loaded.
	ErrNullInput = errors.New("scloudplus: null input")

	// ErrInvalidArgument is returned when a parameter value is outside
	// the accepted range, a buffer is the wrong length, or a ciphertext's
	// length does not match the parameter set's ctx_size.
	ErrInvalidArgument = errors.New("scloudplus: invalid argument")

	// ErrAllocFail exists to round out the taxonomy's allocation-failure
	// kind (mirroring the reference's PQCP_MALLOC_FAIL). Go allocation
	// failure is a runtime panic, not a returned error, so no Context
	// method ever returns this; it is kept for API symmetry with the
	// other three sentinels and for callers that want a complete
	// errors.Is switch over the taxonomy.
	ErrAllocFail = errors.New("scloudplus: allocation failed")

	// ErrOracle wraps a failure returned by the randomness, hash or AES
	// oracle; the originating error's text is included in the wrapped
	// message, but errors.Unwrap yields ErrOracle, not the originating
	// error.
	ErrOracle = errors.New("scloudplus: oracle failure")
)
