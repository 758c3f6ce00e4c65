package datrie

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/datrie/internal/unit"
	"github.com/hupe1980/datrie/persistence"
)

// Stats describes the structure of a trie.
type Stats struct {
	Units    int // total units
	Nodes    int // units reachable as transitions, root included
	Keys     int // reachable values
	Unused   int // units not reachable from the root
	MaxDepth int // length of the longest key
	Mapped   bool
}

// Verify walks every transition from the root and checks that each unit
// is reached at most once and that every terminal leads to a value. It
// fails with KindCorrupted when the array cannot have come out of Build.
// An empty trie verifies with zero Stats.
func (t *Trie) Verify() (Stats, error) {
	if t.IsEmpty() {
		return Stats{}, nil
	}
	units := t.units
	if err := persistence.ValidateRoot(units); err != nil {
		return Stats{}, translateError(err, KindCorrupted)
	}

	type frame struct {
		id    uint32
		depth int
	}

	var seen roaring.Bitmap
	seen.Add(0)
	stats := Stats{Units: len(units), Mapped: t.mapped != nil}
	stack := []frame{{id: 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		u := units[f.id]
		stats.Nodes++
		base := f.id ^ u.Offset()

		if u.HasLeaf() {
			v, ok := unit.At(units, base)
			if !ok || !v.IsValue() {
				return stats, corrupted("node %d: terminal without value unit", f.id)
			}
			if !seen.CheckedAdd(base) {
				return stats, corrupted("node %d: value unit %d shared", f.id, base)
			}
			stats.Keys++
			stats.MaxDepth = max(stats.MaxDepth, f.depth)
		}

		for c := uint32(1); c < 256; c++ {
			next := base ^ c
			cu, ok := unit.At(units, next)
			if !ok || cu.Label() != c {
				continue
			}
			if !seen.CheckedAdd(next) {
				return stats, corrupted("node %d: child %d reached twice", f.id, next)
			}
			stack = append(stack, frame{id: next, depth: f.depth + 1})
		}
	}

	stats.Unused = len(units) - int(seen.GetCardinality())
	return stats, nil
}

func corrupted(format string, args ...any) error {
	return newError(KindCorrupted, fmt.Errorf(format, args...))
}
