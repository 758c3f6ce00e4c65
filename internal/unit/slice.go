package unit

import "unsafe"

// FromUint32s reinterprets raw as units without copying. Both slices share
// the same backing array.
func FromUint32s(raw []uint32) []Unit {
	if len(raw) == 0 {
		return nil
	}
	return unsafe.Slice((*Unit)(unsafe.Pointer(unsafe.SliceData(raw))), len(raw))
}

// ToUint32s reinterprets units as raw words without copying.
func ToUint32s(units []Unit) []uint32 {
	if len(units) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(units))), len(units))
}

// At returns the unit at id and false when id is out of range.
func At(units []Unit, id uint32) (Unit, bool) {
	if uint64(id) >= uint64(len(units)) {
		return 0, false
	}
	return units[id], true
}
