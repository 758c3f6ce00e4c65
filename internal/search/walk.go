package search

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/datrie/internal/unit"
)

// Descend follows key from nodePos and returns the node reached.
func Descend(units []unit.Unit, key []byte, nodePos int) (int, bool) {
	id, ok := nodeID(nodePos)
	if !ok {
		return 0, false
	}
	if _, ok := unit.At(units, id); !ok {
		return 0, false
	}
	for _, c := range key {
		if id, _, ok = child(units, id, c); !ok {
			return 0, false
		}
	}
	return int(id), true
}

// Walk calls fn for every key stored below nodePos in ascending byte order.
// Keys passed to fn start with prefix and are only valid during the call.
// Returning false from fn stops the walk. Each unit is entered at most once,
// so a corrupted array with shared or cyclic transitions ends after at most
// len(units) nodes.
func Walk(units []unit.Unit, nodePos int, prefix []byte, fn func(key []byte, value int32) bool) {
	id, ok := nodeID(nodePos)
	if !ok {
		return
	}
	u, ok := unit.At(units, id)
	if !ok {
		return
	}
	key := make([]byte, len(prefix), len(prefix)+32)
	copy(key, prefix)
	w := walker{units: units, seen: roaring.New(), fn: fn}
	w.walk(id, u, key)
}

type walker struct {
	units []unit.Unit
	seen  *roaring.Bitmap
	fn    func([]byte, int32) bool
}

func (w *walker) walk(id uint32, u unit.Unit, key []byte) bool {
	if !w.seen.CheckedAdd(id) {
		return true
	}
	if v, ok := leafValue(w.units, id, u); ok {
		if !w.fn(key, v) {
			return false
		}
	}
	for c := 1; c < 256; c++ {
		next, nu, ok := child(w.units, id, byte(c))
		if !ok {
			continue
		}
		if !w.walk(next, nu, append(key, byte(c))) {
			return false
		}
	}
	return true
}
