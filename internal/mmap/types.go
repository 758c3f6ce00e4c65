package mmap

import "errors"

// AccessPattern is a paging hint passed to Advise.
type AccessPattern int

const (
	AccessDefault AccessPattern = iota
	AccessSequential
	// AccessRandom suits trie lookups, which hop across the array.
	AccessRandom
	AccessWillNeed
	AccessDontNeed
)

var (
	ErrClosed        = errors.New("mmap: mapping is closed")
	ErrInvalidSize   = errors.New("mmap: invalid file size")
	ErrOutOfBounds   = errors.New("mmap: out of bounds")
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
