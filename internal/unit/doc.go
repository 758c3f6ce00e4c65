// Package unit defines the packed 32-bit record that makes up a double-array
// trie and the accessors used by the builder and the search engine.
//
// # Layout
//
//	bit 31      leaf marker; when set the low 31 bits hold a value
//	bits 10-31  offset (bit 9 selects an 8-bit left shift)
//	bit 8       has_leaf: the node terminates a key
//	bits 0-7    label of the transition that reaches the unit
//
// The layout matches darts-clone, so arrays produced here can be read by
// darts-clone (and vice versa) on little-endian hosts.
package unit
