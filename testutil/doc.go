// Package testutil provides testing utilities for datrie.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random key sets and computing the
// reference answers a trie must reproduce.
//
// # Random Key Generation
//
//	rng := testutil.NewRNG(seed)
//	keys := rng.UniqueKeys(1000, 1, 12, testutil.AlphabetLower)
//	keys := rng.SharedPrefixKeys(1000, 3)   // deep, heavily shared paths
//
// # Ground Truth
//
//	ref := testutil.NewReference(keys, values)
//	want := ref.PrefixValues(query)
package testutil
