// Package datrie implements a static double-array trie compatible with the
// darts-clone memory layout.
//
// A trie maps byte keys to non-negative int32 values. It is built once from
// a key set and then serves exact lookups, common prefix searches and
// resumable traversal from a packed array of 32-bit units. The array can
// be written to and read from files, object stores and compressed
// archives without any translation.
//
// # Quick Start
//
//	t := datrie.New()
//	if err := t.BuildStrings([]string{"he", "hell", "hello", "world"}, []int32{1, 2, 3, 4}); err != nil {
//	    log.Fatal(err)
//	}
//
//	v, ok := t.FindString("hell")            // 2, true
//	vals, n := t.CommonPrefixSearch([]byte("hello"), 8) // [1 2 3], 3
//
// # Persistence
//
// The raw form is the unit array in little-endian order with no header, so
// several tries can share one file at different offsets:
//
//	_ = t.Dump("dict.da", 0)
//	_ = v.Dump("dict.da", 1<<20)      // other windows are kept
//	_ = u.Load("dict.da", 0, 0)       // copy into the heap
//	_ = u.LoadMapped("dict.da", 0, 0) // zero-copy mmap, release with Close
//
// Archives add a checksum and optional LZ4 or Zstandard compression:
//
//	_ = t.WriteArchive(w, datrie.CompressionZstd)
//	_ = u.ReadArchive(r)
//
// Tries can also be stored in any blobstore.BlobStore (local, S3, MinIO):
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("tries/"))
//	_ = t.DumpBlob(ctx, store, "words.da")
//	_ = u.LoadBlob(ctx, store, "words.da", 0, 0)
//
// # Errors
//
// Failures are *Error values of one Kind. Use errors.Is with ErrValue,
// ErrIO, ErrBuild or ErrCorrupted to branch on them.
//
// # Concurrency
//
// Lookups, iteration and dumps only read the array and may run
// concurrently. Build, Load, SetArray, Clear and Close need exclusive
// access.
package datrie
