package testutil

import (
	"bytes"
	"math/rand"
	"sort"
	"sync"
)

// Alphabets for key generation.
const (
	AlphabetLower  = "abcdefghijklmnopqrstuvwxyz"
	AlphabetBinary = "\x01\x02\x7f\x80\xfe\xff"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Key returns a random key with a length in [minLen, maxLen] drawn from alphabet.
func (r *RNG) Key(minLen, maxLen int, alphabet string) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keyLocked(minLen, maxLen, alphabet)
}

func (r *RNG) keyLocked(minLen, maxLen int, alphabet string) []byte {
	n := minLen
	if maxLen > minLen {
		n += r.rand.Intn(maxLen - minLen + 1)
	}
	key := make([]byte, n)
	for i := range key {
		key[i] = alphabet[r.rand.Intn(len(alphabet))]
	}
	return key
}

// Keys generates num random keys. Duplicates are possible.
func (r *RNG) Keys(num, minLen, maxLen int, alphabet string) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([][]byte, num)
	for i := range keys {
		keys[i] = r.keyLocked(minLen, maxLen, alphabet)
	}
	return keys
}

// UniqueKeys generates num distinct random keys. The key space spanned by
// minLen, maxLen and alphabet must hold at least num keys.
func (r *RNG) UniqueKeys(num, minLen, maxLen int, alphabet string) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, num)
	keys := make([][]byte, 0, num)
	for len(keys) < num {
		k := r.keyLocked(minLen, maxLen, alphabet)
		if _, ok := seen[string(k)]; ok {
			continue
		}
		seen[string(k)] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// SharedPrefixKeys generates num distinct keys built as chains of short
// random segments over a tiny alphabet, so most keys are prefixes of others.
// This is the worst case for the free slot search of the builder.
func (r *RNG) SharedPrefixKeys(num, segments int) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, num)
	keys := make([][]byte, 0, num)
	for len(keys) < num {
		var k []byte
		n := 1 + r.rand.Intn(segments)
		for range n {
			k = append(k, r.keyLocked(1, 3, "ab")...)
		}
		if _, ok := seen[string(k)]; ok {
			continue
		}
		seen[string(k)] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// Values returns num random non-negative values below limit.
func (r *RNG) Values(num int, limit int32) []int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]int32, num)
	for i := range values {
		values[i] = r.rand.Int31n(limit)
	}
	return values
}

// Reference is a map-based model of a built trie.
type Reference struct {
	values map[string]int32
	sorted [][]byte
}

// NewReference builds the model for keys and values. A nil values slice
// uses sorted positions, mirroring a value-less build.
func NewReference(keys [][]byte, values []int32) *Reference {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return bytes.Compare(keys[idx[a]], keys[idx[b]]) < 0
	})

	ref := &Reference{values: make(map[string]int32, len(keys))}
	for pos, i := range idx {
		v := int32(pos)
		if values != nil {
			v = values[i]
		}
		if _, ok := ref.values[string(keys[i])]; !ok {
			ref.sorted = append(ref.sorted, keys[i])
		}
		ref.values[string(keys[i])] = v
	}
	return ref
}

// Len returns the number of distinct keys.
func (ref *Reference) Len() int {
	return len(ref.values)
}

// Get returns the value stored for key.
func (ref *Reference) Get(key []byte) (int32, bool) {
	v, ok := ref.values[string(key)]
	return v, ok
}

// SortedKeys returns the distinct keys in byte order.
func (ref *Reference) SortedKeys() [][]byte {
	return ref.sorted
}

// PrefixValues returns the values of all keys that are prefixes of query,
// shortest first.
func (ref *Reference) PrefixValues(query []byte) []int32 {
	var out []int32
	for i := 0; i <= len(query); i++ {
		if v, ok := ref.values[string(query[:i])]; ok {
			out = append(out, v)
		}
	}
	return out
}
