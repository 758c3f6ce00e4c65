package unit

// Size is the byte width of one unit.
const Size = 4

const (
	leafBit    = uint32(1) << 31
	hasLeafBit = uint32(1) << 8
	extendBit  = uint32(1) << 9
	labelMask  = leafBit | 0xFF
	valueMask  = leafBit - 1

	// MaxOffset is the first offset that cannot be encoded.
	MaxOffset = uint32(1) << 29
	// MaxValue is the largest value a terminal can carry.
	MaxValue = int32(valueMask)

	shortOffsetLimit = uint32(1) << 21
)

// Unit is one packed double-array record.
type Unit uint32

// HasLeaf reports whether the node terminates a key.
func (u Unit) HasLeaf() bool {
	return uint32(u)&hasLeafBit != 0
}

// IsValue reports whether the unit stores a terminal value.
func (u Unit) IsValue() bool {
	return uint32(u)&leafBit != 0
}

// Value returns the terminal value stored in a value unit.
func (u Unit) Value() int32 {
	return int32(uint32(u) & valueMask)
}

// Label returns the transition label. Value units report a label with bit 31
// set so they never match an input byte.
func (u Unit) Label() uint32 {
	return uint32(u) & labelMask
}

// Offset returns the XOR distance from this node to its children block.
func (u Unit) Offset() uint32 {
	return (uint32(u) >> 10) << ((uint32(u) & extendBit) >> 6)
}

// WithHasLeaf returns u with the has_leaf flag set or cleared.
func (u Unit) WithHasLeaf(hasLeaf bool) Unit {
	if hasLeaf {
		return u | Unit(hasLeafBit)
	}
	return u &^ Unit(hasLeafBit)
}

// WithLabel returns u with its label replaced.
func (u Unit) WithLabel(label byte) Unit {
	return (u &^ 0xFF) | Unit(label)
}

// WithOffset returns u with its offset replaced. ok is false when the offset
// does not fit the encoding.
func (u Unit) WithOffset(offset uint32) (Unit, bool) {
	if offset >= MaxOffset {
		return u, false
	}
	v := uint32(u) & (leafBit | hasLeafBit | 0xFF)
	if offset < shortOffsetLimit {
		v |= offset << 10
	} else {
		v |= (offset << 2) | extendBit
	}
	return Unit(v), true
}

// NewValue returns a value unit. The caller guarantees 0 <= value.
func NewValue(value int32) Unit {
	return Unit(uint32(value) | leafBit)
}
