// Package blobstore abstracts where dumped tries and archives live.
//
// A trie image is written once and then read many times, often only a window
// of it, because several tries may share one object. The interfaces reflect
// that: whole-blob Put or streamed Create for writing, and ranged reads for
// loading.
//
// # Implementations
//
//   - LocalStore: files below a directory, read through a memory mapping
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
package blobstore
