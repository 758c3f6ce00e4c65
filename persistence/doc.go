// Package persistence reads and writes unit arrays.
//
// The raw format is the bare array: Size()*4 bytes, little-endian, no header,
// no magic and no checksum. It is bit compatible with darts-clone files on
// little-endian hosts, and several arrays can share one file as long as their
// (offset, size) windows do not overlap.
//
// Three ways in:
//   - Dump and Load copy a window between a file and the heap.
//   - Map serves a window straight from a read-only memory mapping.
//   - WriteArchive and ReadArchive wrap the raw bytes in a 16-byte header
//     carrying a CRC32C and an optional LZ4 or Zstd payload.
//
// On little-endian hosts encoding and decoding reinterpret memory in place
// after an alignment check (see safety.go). Other hosts take a portable
// byte-by-byte path.
package persistence
