package datrie

import (
	"iter"

	"github.com/hupe1980/datrie/internal/search"
)

// All yields every key and its value in ascending byte order.
//
// The key slice is reused between iterations. Clone it to keep it.
func (t *Trie) All() iter.Seq2[[]byte, int32] {
	return func(yield func([]byte, int32) bool) {
		search.Walk(t.units, 0, nil, yield)
	}
}

// PredictiveSearch yields the keys starting with prefix in ascending byte
// order. Keys are reused like in All.
func (t *Trie) PredictiveSearch(prefix []byte) iter.Seq2[[]byte, int32] {
	return func(yield func([]byte, int32) bool) {
		node, ok := search.Descend(t.units, prefix, 0)
		if !ok {
			return
		}
		search.Walk(t.units, node, prefix, yield)
	}
}
