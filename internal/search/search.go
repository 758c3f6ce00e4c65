// Package search implements the read path over double-array units: exact
// match, common prefix enumeration, resumable traversal and depth-first
// enumeration. Every function only reads the units and checks bounds on
// each hop, so arbitrary (even corrupted) arrays never cause a panic.
package search

import (
	"github.com/hupe1980/datrie/internal/unit"
)

// Traverse status codes. Non-negative results are values.
const (
	NoValue int32 = -1
	DeadEnd int32 = -2
	Empty   int32 = -3
)

// Match is a terminal found by a prefix search.
type Match struct {
	Value  int32
	Length int // number of key bytes consumed from the start node
}

// child follows the transition on label from node id. ok is false when the
// transition does not exist or leaves the array.
func child(units []unit.Unit, id uint32, label byte) (uint32, unit.Unit, bool) {
	cur, ok := unit.At(units, id)
	if !ok {
		return 0, 0, false
	}
	next := id ^ cur.Offset() ^ uint32(label)
	u, ok := unit.At(units, next)
	if !ok || u.Label() != uint32(label) {
		return 0, 0, false
	}
	return next, u, true
}

// leafValue returns the value of a node carrying has_leaf.
func leafValue(units []unit.Unit, id uint32, u unit.Unit) (int32, bool) {
	if !u.HasLeaf() {
		return 0, false
	}
	v, ok := unit.At(units, id^u.Offset())
	if !ok || !v.IsValue() {
		return 0, false
	}
	return v.Value(), true
}

func nodeID(nodePos int) (uint32, bool) {
	if nodePos < 0 || uint64(nodePos) > uint64(^uint32(0)) {
		return 0, false
	}
	return uint32(nodePos), true
}

// ExactMatch walks key from nodePos and returns the terminal value at its end.
func ExactMatch(units []unit.Unit, key []byte, nodePos int) (int32, bool) {
	id, ok := nodeID(nodePos)
	if !ok {
		return 0, false
	}
	u, ok := unit.At(units, id)
	if !ok {
		return 0, false
	}
	for _, c := range key {
		if id, u, ok = child(units, id, c); !ok {
			return 0, false
		}
	}
	return leafValue(units, id, u)
}

// CommonPrefix returns the values of all keys that are prefixes of key, in
// increasing length, up to maxResults values. total counts every terminal
// met on the walk and may exceed maxResults.
func CommonPrefix(units []unit.Unit, key []byte, maxResults, nodePos int) ([]int32, int) {
	var values []int32
	total := walkPrefixes(units, key, nodePos, func(v int32, _ int) bool {
		if len(values) >= maxResults {
			return false
		}
		values = append(values, v)
		return true
	})
	return values, total
}

// CommonPrefixMatches is CommonPrefix reporting prefix lengths as well.
func CommonPrefixMatches(units []unit.Unit, key []byte, maxResults, nodePos int) ([]Match, int) {
	var matches []Match
	total := walkPrefixes(units, key, nodePos, func(v int32, length int) bool {
		if len(matches) >= maxResults {
			return false
		}
		matches = append(matches, Match{Value: v, Length: length})
		return true
	})
	return matches, total
}

// walkPrefixes calls emit for each terminal reached by consuming bytes of
// key. At the root the empty key is reported first. Once emit returns false
// terminals are only counted.
func walkPrefixes(units []unit.Unit, key []byte, nodePos int, emit func(value int32, length int) bool) int {
	id, ok := nodeID(nodePos)
	if !ok {
		return 0
	}
	u, ok := unit.At(units, id)
	if !ok {
		return 0
	}

	total := 0
	collecting := true
	record := func(length int) {
		v, ok := leafValue(units, id, u)
		if !ok {
			return
		}
		if collecting {
			collecting = emit(v, length)
		}
		total++
	}

	if id == 0 {
		record(0)
	}
	for i, c := range key {
		if id, u, ok = child(units, id, c); !ok {
			break
		}
		record(i + 1)
	}
	return total
}

// Traverse continues a walk at *nodePos over key[*keyPos:]. Both cursors
// advance with every successful hop; on a dead end they keep the last valid
// position.
func Traverse(units []unit.Unit, key []byte, nodePos, keyPos *int) int32 {
	if len(units) == 0 {
		return Empty
	}
	id, ok := nodeID(*nodePos)
	if !ok || *keyPos < 0 {
		return DeadEnd
	}
	u, ok := unit.At(units, id)
	if !ok {
		return DeadEnd
	}

	for ; *keyPos < len(key); *keyPos++ {
		next, nu, ok := child(units, id, key[*keyPos])
		if !ok {
			return DeadEnd
		}
		id, u = next, nu
		*nodePos = int(id)
	}

	if v, ok := leafValue(units, id, u); ok {
		return v
	}
	return NoValue
}
