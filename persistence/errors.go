package persistence

import "errors"

var (
	// ErrInvalidOffset is returned for negative offsets.
	ErrInvalidOffset = errors.New("invalid offset")
	// ErrInvalidSize is returned for negative unit counts.
	ErrInvalidSize = errors.New("invalid size")

	// ErrMisaligned is returned when a window is empty or its byte count is
	// not a multiple of the unit size.
	ErrMisaligned = errors.New("byte count is not a whole number of units")
	// ErrTruncated is returned when fewer bytes are available than requested.
	ErrTruncated = errors.New("unit array is truncated")
	// ErrBadRoot is returned when unit 0 cannot be the root of a trie.
	ErrBadRoot = errors.New("invalid root unit")

	ErrInvalidMagic       = errors.New("invalid archive magic")
	ErrInvalidVersion     = errors.New("unsupported archive version")
	ErrUnknownCompression = errors.New("unknown compression")
	ErrCorruptPayload     = errors.New("corrupt archive payload")

	// ErrUnknownDumpMode is returned for an unsupported DumpMode.
	ErrUnknownDumpMode = errors.New("unknown dump mode")
)
