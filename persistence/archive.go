package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/datrie/internal/conv"
	"github.com/hupe1980/datrie/internal/hash"
	"github.com/hupe1980/datrie/internal/unit"
)

const (
	// ArchiveMagic opens every archive ("DATR").
	ArchiveMagic = "DATR"
	// ArchiveVersion is the current archive layout.
	ArchiveVersion = 1
	// ArchiveHeaderSize is the encoded size of ArchiveHeader.
	ArchiveHeaderSize = 16
)

// ArchiveHeader precedes the payload of an archive. Checksum covers the raw,
// uncompressed unit bytes.
type ArchiveHeader struct {
	Magic       [4]byte
	Version     uint8
	Compression Compression
	Reserved    uint16
	Units       uint32
	Checksum    uint32
}

// WriteArchive writes units to w as a checksummed archive.
func WriteArchive(w io.Writer, units []unit.Unit, c Compression) error {
	if c > CompressionZstd {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
	count, err := conv.IntToUint32(len(units))
	if err != nil {
		return err
	}

	raw := Encode(units)
	header := ArchiveHeader{
		Version:     ArchiveVersion,
		Compression: c,
		Units:       count,
		Checksum:    hash.CRC32C(raw),
	}
	copy(header.Magic[:], ArchiveMagic)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	return compress(w, raw, c)
}

// ReadArchiveHeader reads and validates an archive header.
func ReadArchiveHeader(r io.Reader) (*ArchiveHeader, error) {
	var header ArchiveHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: short archive header", ErrTruncated)
		}
		return nil, err
	}
	if string(header.Magic[:]) != ArchiveMagic {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, header.Magic[:])
	}
	if header.Version != ArchiveVersion {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVersion, header.Version)
	}
	if header.Compression > CompressionZstd {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(header.Compression))
	}
	return &header, nil
}

// ReadArchive reads an archive written by WriteArchive. The payload is
// checked against the header checksum and the root unit is validated. An
// archive of an empty trie yields no units.
func ReadArchive(r io.Reader) ([]unit.Unit, *ArchiveHeader, error) {
	header, err := ReadArchiveHeader(r)
	if err != nil {
		return nil, nil, err
	}

	payload, release, err := decompressor(r, header.Compression)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	// The buffer grows with the data actually present, so a corrupted count
	// cannot force a huge allocation up front.
	want := int64(header.Units) * unit.Size
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(payload, want))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorruptPayload, err)
	}
	if n != want {
		return nil, nil, fmt.Errorf("%w: payload has %d of %d bytes", ErrTruncated, n, want)
	}

	raw := buf.Bytes()
	if err := hash.Verify(raw, header.Checksum); err != nil {
		return nil, nil, err
	}

	if len(raw) == 0 {
		return nil, header, nil
	}
	units := decodeCopy(raw)
	if err := ValidateRoot(units); err != nil {
		return nil, nil, err
	}
	return units, header, nil
}
