package datrie

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/datrie/internal/builder"
	"github.com/hupe1980/datrie/internal/keyset"
	"github.com/hupe1980/datrie/internal/resource"
	"github.com/hupe1980/datrie/internal/search"
	"github.com/hupe1980/datrie/internal/unit"
	"github.com/hupe1980/datrie/persistence"
)

// Traverse status codes. Non-negative results of Traverse are values.
const (
	// TraverseNoValue means the path exists but ends on a node without a value.
	TraverseNoValue = search.NoValue
	// TraverseDeadEnd means the next byte has no transition.
	TraverseDeadEnd = search.DeadEnd
	// TraverseEmpty is returned for every call on an empty trie.
	TraverseEmpty = search.Empty
)

// UnitSize is the size of one unit in bytes.
const UnitSize = unit.Size

// ErrEmptyTrie is returned when an operation needs a built or loaded trie.
var ErrEmptyTrie = errors.New("trie is empty")

// Match is a key prefix found by CommonPrefixMatches.
type Match = search.Match

// Trie is a double-array trie mapping byte keys to non-negative int32
// values.
//
// Lookups never modify the trie and may run concurrently. Build, Load,
// SetArray, Clear and Close replace the array and need exclusive access.
type Trie struct {
	units  []unit.Unit
	mapped *persistence.Mapped
	held   int64 // bytes reserved with rc for units

	opts options
	rc   *resource.Controller
}

// New returns an empty trie.
func New(optFns ...Option) *Trie {
	opts := applyOptions(optFns)
	return &Trie{
		opts: opts,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes:   opts.memoryLimit,
			IOLimitBytesPerSec: opts.ioLimit,
		}),
	}
}

// Build replaces the content of the trie with keys. values may be nil, in
// which case each key maps to its position in byte order. Keys need not be
// sorted and must not contain 0x00. For duplicate keys the value given last
// wins.
//
// On failure the previous content is kept.
func (t *Trie) Build(keys [][]byte, values []int32, optFns ...BuildOption) error {
	ks, err := keyset.New(keys, values)
	if err != nil {
		return translateError(err, KindValue)
	}
	return t.build(ks, optFns)
}

// BuildStrings is Build for string keys.
func (t *Trie) BuildStrings(keys []string, values []int32, optFns ...BuildOption) error {
	ks, err := keyset.FromStrings(keys, values)
	if err != nil {
		return translateError(err, KindValue)
	}
	return t.build(ks, optFns)
}

func (t *Trie) build(ks *keyset.Keyset, optFns []BuildOption) (err error) {
	start := time.Now()
	ctx := context.Background()

	bo := buildOptions{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&bo)
		}
	}

	maxUnits := bo.maxUnits
	budgeted := false
	if limit := t.rc.MemoryLimit(); limit > 0 {
		avail := (limit - t.rc.MemoryUsage() + t.held) / unit.Size
		if maxUnits == 0 || avail < int64(maxUnits) {
			maxUnits = int(max(avail, 1))
			budgeted = true
		}
	}

	units, err := builder.Build(ks, func(o *builder.Options) {
		o.Progress = bo.progress
		o.MaxUnits = maxUnits
		o.Logger = t.opts.logger.Logger
	})
	if err != nil && budgeted && errors.Is(err, builder.ErrTooManyUnits) {
		err = fmt.Errorf("%w: %w", resource.ErrMemoryLimitExceeded, err)
	}
	if err == nil {
		err = t.replace(units, nil)
	}

	t.opts.metricsCollector.RecordBuild(ks.Len(), len(units), time.Since(start), err)
	t.opts.logger.LogBuild(ctx, ks.Len(), len(units), err)
	return translateError(err, KindBuild)
}

// replace swaps in a new array. The memory reservation follows the heap
// array; mapped and borrowed arrays are not counted.
func (t *Trie) replace(units []unit.Unit, mapped *persistence.Mapped) error {
	var need int64
	if mapped == nil {
		need = int64(len(units)) * unit.Size
	}

	t.rc.ReleaseMemory(t.held)
	if err := t.rc.AcquireMemory(need); err != nil {
		_ = t.rc.AcquireMemory(t.held)
		return err
	}

	old := t.mapped
	t.units, t.mapped, t.held = units, mapped, need
	if old != nil {
		if err := old.Close(); err != nil {
			t.opts.logger.Warn("failed to release previous mapping", "error", err)
		}
	}
	return nil
}

// Find returns the value stored for key.
func (t *Trie) Find(key []byte) (int32, bool) {
	return search.ExactMatch(t.units, key, 0)
}

// FindString is Find for a string key.
func (t *Trie) FindString(key string) (int32, bool) {
	return search.ExactMatch(t.units, []byte(key), 0)
}

// FindAt looks key up starting at the node nodePos, as returned through
// Traverse, instead of the root.
func (t *Trie) FindAt(key []byte, nodePos int) (int32, bool) {
	return search.ExactMatch(t.units, key, nodePos)
}

// CommonPrefixSearch returns the values of the stored keys that are
// prefixes of key, shortest first, and the number of such keys. At most
// maxResults values are returned; the count is not capped.
func (t *Trie) CommonPrefixSearch(key []byte, maxResults int) ([]int32, int) {
	return search.CommonPrefix(t.units, key, maxResults, 0)
}

// CommonPrefixSearchAt is CommonPrefixSearch starting at nodePos. Only
// terminals reached by consuming bytes of key are reported, so the key
// ending at nodePos itself is not.
func (t *Trie) CommonPrefixSearchAt(key []byte, maxResults, nodePos int) ([]int32, int) {
	return search.CommonPrefix(t.units, key, maxResults, nodePos)
}

// CommonPrefixMatches is CommonPrefixSearch reporting the length of each
// matching prefix as well.
func (t *Trie) CommonPrefixMatches(key []byte, maxResults int) ([]Match, int) {
	return search.CommonPrefixMatches(t.units, key, maxResults, 0)
}

// Traverse walks key[*keyPos:] from *nodePos and advances both. It returns
// a value, TraverseNoValue, TraverseDeadEnd or TraverseEmpty. After a dead
// end the positions point at the last node reached; start over from a fresh
// position instead of continuing.
//
//	nodePos, keyPos := 0, 0
//	for _, c := range input {
//	    buf = append(buf, c)
//	    switch v := t.Traverse(buf, &nodePos, &keyPos); {
//	    case v >= 0:
//	        // buf is a key
//	    case v == datrie.TraverseDeadEnd:
//	        return
//	    }
//	}
func (t *Trie) Traverse(key []byte, nodePos, keyPos *int) int32 {
	return search.Traverse(t.units, key, nodePos, keyPos)
}

// Clear discards the array.
func (t *Trie) Clear() {
	if err := t.reset(); err != nil {
		t.opts.logger.Warn("failed to release mapping", "error", err)
	}
}

func (t *Trie) reset() error {
	t.rc.ReleaseMemory(t.held)
	m := t.mapped
	t.units, t.mapped, t.held = nil, nil, 0
	if m != nil {
		return m.Close()
	}
	return nil
}

// IsEmpty reports whether the trie holds no units.
func (t *Trie) IsEmpty() bool {
	return len(t.units) == 0
}

// Size returns the number of units.
func (t *Trie) Size() int {
	return len(t.units)
}

// UnitSize returns the size of one unit in bytes.
func (t *Trie) UnitSize() int {
	return unit.Size
}

// TotalSize returns Size() * UnitSize().
func (t *Trie) TotalSize() int {
	return len(t.units) * unit.Size
}

// SetArray makes the trie use raw as its units without copying. raw must
// not be modified while the trie uses it. A nil or empty raw clears the
// trie.
func (t *Trie) SetArray(raw []uint32) {
	if err := t.reset(); err != nil {
		t.opts.logger.Warn("failed to release mapping", "error", err)
	}
	t.units = unit.FromUint32s(raw)
}

// Array returns the units as raw words. The slice aliases the trie.
func (t *Trie) Array() []uint32 {
	return unit.ToUint32s(t.units)
}
