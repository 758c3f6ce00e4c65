// Package mmap maps dumped double arrays into memory read-only so a trie can
// serve lookups straight from the page cache.
//
//	m, err := mmap.Open("dict.da")
//	if err != nil { ... }
//	defer m.Close()
//
//	window, err := m.Slice(offset, size)
//	_ = m.Advise(mmap.AccessRandom)
//
// Unix builds use mmap(2) and madvise(2). Windows uses
// CreateFileMapping/MapViewOfFile and treats Advise as a no-op.
//
// A Mapping is safe for concurrent readers. Close is idempotent, but slices
// obtained from Bytes or Slice must not be touched after it returns.
package mmap
