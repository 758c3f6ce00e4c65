// Package keyset validates and orders the (key, value) input of a trie build.
package keyset

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrEmptyKeys is returned when no keys are given.
	ErrEmptyKeys = errors.New("keyset: empty keys")
	// ErrLengthMismatch is returned when values and keys differ in length.
	ErrLengthMismatch = errors.New("keyset: number of keys and values mismatch")
	// ErrNullByte is returned when a key contains a 0x00 byte.
	ErrNullByte = errors.New("keyset: key contains a null byte")
)

type pair struct {
	key   []byte
	value int32
}

// Keyset is an immutable, byte-lexicographically sorted set of keys.
type Keyset struct {
	pairs     []pair
	hasValues bool
}

// New validates keys and values and returns them sorted by key.
// values may be nil; the keyset is then value-less.
func New(keys [][]byte, values []int32) (*Keyset, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyKeys
	}
	if values != nil && len(values) != len(keys) {
		return nil, fmt.Errorf("%w: got %d keys and %d values", ErrLengthMismatch, len(keys), len(values))
	}

	pairs := make([]pair, len(keys))
	for i, k := range keys {
		if j := bytes.IndexByte(k, 0); j >= 0 {
			return nil, fmt.Errorf("%w: key %d at byte %d", ErrNullByte, i, j)
		}
		pairs[i].key = k
		if values != nil {
			pairs[i].value = values[i]
		}
	}

	slices.SortStableFunc(pairs, func(a, b pair) int {
		return bytes.Compare(a.key, b.key)
	})

	return &Keyset{pairs: pairs, hasValues: values != nil}, nil
}

// FromStrings is New for string keys.
func FromStrings(keys []string, values []int32) (*Keyset, error) {
	bs := make([][]byte, len(keys))
	for i, k := range keys {
		bs[i] = []byte(k)
	}
	return New(bs, values)
}

// Len returns the number of keys, duplicates included.
func (ks *Keyset) Len() int {
	return len(ks.pairs)
}

// HasValues reports whether explicit values were supplied.
func (ks *Keyset) HasValues() bool {
	return ks.hasValues
}

// Key returns the i-th key in sorted order.
func (ks *Keyset) Key(i int) []byte {
	return ks.pairs[i].key
}

// Value returns the value of the i-th key. Value-less keysets use the
// sorted position as the value.
func (ks *Keyset) Value(i int) int32 {
	if !ks.hasValues {
		return int32(i)
	}
	return ks.pairs[i].value
}

// Byte returns the byte of key i at depth, or 0 past the end of the key.
func (ks *Keyset) Byte(i, depth int) byte {
	k := ks.pairs[i].key
	if depth < len(k) {
		return k[depth]
	}
	return 0
}
