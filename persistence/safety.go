package persistence

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/hupe1980/datrie/internal/unit"
)

// ErrUnalignedAccess is returned when a byte window cannot be viewed as
// units in place.
var ErrUnalignedAccess = fmt.Errorf("unaligned memory access")

var nativeLittleEndian = isLittleEndian()

func isLittleEndian() bool {
	var probe uint16 = 0x0001
	return *(*byte)(unsafe.Pointer(&probe)) == 1
}

// ZeroCopy reports whether unit arrays can be reinterpreted as bytes in
// place on this host.
func ZeroCopy() bool {
	return nativeLittleEndian
}

// PlatformInfo describes the host for diagnostics.
func PlatformInfo() string {
	endian := "little-endian"
	if !nativeLittleEndian {
		endian = "big-endian"
	}
	return fmt.Sprintf("GOOS=%s GOARCH=%s endianness=%s", runtime.GOOS, runtime.GOARCH, endian)
}

func validateAlignment(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if ptr := uintptr(unsafe.Pointer(unsafe.SliceData(b))); ptr%unit.Size != 0 {
		return fmt.Errorf("%w: unit window at address 0x%x", ErrUnalignedAccess, ptr)
	}
	return nil
}

// unitBytes views the memory of units as bytes. The bytes are the raw
// format only on little-endian hosts.
func unitBytes(units []unit.Unit) []byte {
	if len(units) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(units))), len(units)*unit.Size)
}

// bytesUnits views an aligned byte window as units. Callers must only use it
// on little-endian hosts.
func bytesUnits(b []byte) ([]unit.Unit, error) {
	if err := validateAlignment(b); err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	return unsafe.Slice((*unit.Unit)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/unit.Size), nil
}

// fixByteOrder turns units read as raw little-endian bytes into host order.
func fixByteOrder(units []unit.Unit) {
	if nativeLittleEndian || len(units) == 0 {
		return
	}
	raw := unitBytes(units)
	for i := range units {
		units[i] = unit.Unit(binary.LittleEndian.Uint32(raw[i*unit.Size:]))
	}
}
