package persistence

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/datrie/internal/unit"
)

// Encode returns the raw little-endian form of units. On little-endian
// hosts the result aliases units and must not be modified.
func Encode(units []unit.Unit) []byte {
	if nativeLittleEndian {
		return unitBytes(units)
	}
	out := make([]byte, len(units)*unit.Size)
	for i, u := range units {
		binary.LittleEndian.PutUint32(out[i*unit.Size:], uint32(u))
	}
	return out
}

// Decode returns the units stored in b. On little-endian hosts an aligned b
// is viewed in place and the result aliases it; otherwise the bytes are
// copied.
func Decode(b []byte) ([]unit.Unit, error) {
	if len(b) == 0 || len(b)%unit.Size != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMisaligned, len(b))
	}
	if nativeLittleEndian {
		if units, err := bytesUnits(b); err == nil {
			return units, nil
		}
	}
	return decodeCopy(b), nil
}

func decodeCopy(b []byte) []unit.Unit {
	units := make([]unit.Unit, len(b)/unit.Size)
	for i := range units {
		units[i] = unit.Unit(binary.LittleEndian.Uint32(b[i*unit.Size:]))
	}
	return units
}

// WriteUnits writes the raw form of units to w.
func WriteUnits(w io.Writer, units []unit.Unit) error {
	if len(units) == 0 {
		return nil
	}
	_, err := w.Write(Encode(units))
	return err
}

// ReadUnits reads exactly n units from r into a fresh slice.
func ReadUnits(r io.Reader, n int) ([]unit.Unit, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d units", ErrInvalidSize, n)
	}
	if n == 0 {
		return nil, nil
	}
	units := make([]unit.Unit, n)
	if _, err := io.ReadFull(r, unitBytes(units)); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: want %d units", ErrTruncated, n)
		}
		return nil, err
	}
	fixByteOrder(units)
	return units, nil
}

// ValidateRoot checks that unit 0 can be the root of a built trie: it is a
// node rather than a value, carries no label, and its offset lands inside
// the array.
func ValidateRoot(units []unit.Unit) error {
	if len(units) == 0 {
		return fmt.Errorf("%w: empty array", ErrMisaligned)
	}
	root := units[0]
	if root.Label() != 0 {
		return fmt.Errorf("%w: unit 0 is %#08x", ErrBadRoot, uint32(root))
	}
	if off := root.Offset(); off == 0 || uint64(off) >= uint64(len(units)) {
		return fmt.Errorf("%w: root offset %d outside %d units", ErrBadRoot, off, len(units))
	}
	return nil
}
