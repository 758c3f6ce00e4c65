// Package hash provides the CRC32-Castagnoli checksum that guards archive
// payloads and blob uploads. Go's crc32 package uses SSE4.2 or the ARM CRC
// extension when present.
package hash
