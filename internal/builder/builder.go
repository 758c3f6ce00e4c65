package builder

import (
	"fmt"
	"slices"

	"github.com/hupe1980/datrie/internal/keyset"
	"github.com/hupe1980/datrie/internal/unit"
)

const (
	blockSize      = 256
	numExtraBlocks = 16
	numExtras      = blockSize * numExtraBlocks

	upperMask = uint32(0xFF) << 21
	lowerMask = uint32(0xFF)
)

// extra is per-slot scratch state. Unfixed slots form a circular list.
type extra struct {
	prev    uint32
	next    uint32
	isFixed bool // slot is claimed by a unit
	isUsed  bool // slot is the offset of some node
}

type builder struct {
	ks         *keyset.Keyset
	opts       Options
	units      []unit.Unit
	extras     []extra
	extrasHead uint32
	labels     []byte
}

// Build returns the double-array units for ks. The keyset must be sorted;
// keyset.New guarantees that.
func Build(ks *keyset.Keyset, optFns ...func(*Options)) ([]unit.Unit, error) {
	opts := Options{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	numUnits := 1
	for numUnits < ks.Len() {
		numUnits <<= 1
	}

	b := &builder{
		ks:     ks,
		opts:   opts,
		units:  make([]unit.Unit, 0, numUnits),
		extras: make([]extra, numExtras),
		labels: make([]byte, 0, blockSize),
	}

	if err := b.reserveID(0); err != nil {
		return nil, err
	}
	b.extra(0).isUsed = true
	root, _ := b.units[0].WithOffset(1)
	b.units[0] = root.WithLabel(0)

	if ks.Len() > 0 {
		if err := b.buildRange(0, ks.Len(), 0, 0); err != nil {
			return nil, err
		}
	}

	b.fixAllBlocks()

	if b.opts.Progress != nil {
		b.opts.Progress(ks.Len()+1, ks.Len()+1)
	}
	if b.opts.Logger != nil {
		b.opts.Logger.Debug("double array built",
			"keys", ks.Len(),
			"units", len(b.units),
			"blocks", b.numBlocks(),
		)
	}

	return b.units, nil
}

func (b *builder) extra(id uint32) *extra {
	return &b.extras[id%numExtras]
}

func (b *builder) numBlocks() uint32 {
	return uint32(len(b.units)) / blockSize
}

// buildRange lays out the node id for keys [begin, end) at depth and then
// recurses into every child range.
func (b *builder) buildRange(begin, end, depth int, id uint32) error {
	offset, err := b.arrange(begin, end, depth, id)
	if err != nil {
		return err
	}

	for begin < end && b.ks.Byte(begin, depth) == 0 {
		begin++
	}
	if begin == end {
		return nil
	}

	lastBegin := begin
	lastLabel := b.ks.Byte(begin, depth)
	for begin++; begin < end; begin++ {
		label := b.ks.Byte(begin, depth)
		if label != lastLabel {
			if err := b.buildRange(lastBegin, begin, depth+1, offset^uint32(lastLabel)); err != nil {
				return err
			}
			lastBegin = begin
			lastLabel = label
		}
	}
	return b.buildRange(lastBegin, end, depth+1, offset^uint32(lastLabel))
}

// arrange collects the child labels of node id, picks an offset for them and
// claims the child slots.
func (b *builder) arrange(begin, end, depth int, id uint32) (uint32, error) {
	b.labels = b.labels[:0]
	value := int32(-1)

	for i := begin; i < end; i++ {
		label := b.ks.Byte(i, depth)
		if label == 0 {
			v := b.ks.Value(i)
			if v < 0 {
				return 0, fmt.Errorf("%w: key %q has value %d", ErrNegativeValue, b.ks.Key(i), v)
			}
			// Later duplicates overwrite earlier ones.
			value = v
			if b.opts.Progress != nil {
				b.opts.Progress(i+1, b.ks.Len()+1)
			}
		}

		if n := len(b.labels); n == 0 {
			b.labels = append(b.labels, label)
		} else if label != b.labels[n-1] {
			if label < b.labels[n-1] {
				return 0, fmt.Errorf("%w: at key %d, depth %d", ErrUnsorted, i, depth)
			}
			b.labels = append(b.labels, label)
		}
	}

	offset := b.findValidOffset(id)
	u, ok := b.units[id].WithOffset(id ^ offset)
	if !ok {
		return 0, fmt.Errorf("%w: node %d, offset %d", ErrOffsetOverflow, id, offset)
	}
	b.units[id] = u

	for _, label := range b.labels {
		childID := offset ^ uint32(label)
		if err := b.reserveID(childID); err != nil {
			return 0, err
		}
		if label == 0 {
			b.units[id] = b.units[id].WithHasLeaf(true)
			b.units[childID] = unit.NewValue(value)
		} else {
			b.units[childID] = b.units[childID].WithLabel(label)
		}
	}
	b.extra(offset).isUsed = true

	return offset, nil
}

// findValidOffset walks the free list starting at its head and returns the
// first offset whose child slots are all free. When none fits, the offset
// points into the next fresh block.
func (b *builder) findValidOffset(id uint32) uint32 {
	size := uint32(len(b.units))
	if b.extrasHead >= size {
		return size | (id & lowerMask)
	}

	unfixedID := b.extrasHead
	for {
		offset := unfixedID ^ uint32(b.labels[0])
		if b.isValidOffset(id, offset) {
			return offset
		}
		unfixedID = b.extra(unfixedID).next
		if unfixedID == b.extrasHead {
			break
		}
	}

	return size | (id & lowerMask)
}

func (b *builder) isValidOffset(id, offset uint32) bool {
	if b.extra(offset).isUsed {
		return false
	}

	// Large relative offsets drop their low byte when encoded.
	rel := id ^ offset
	if rel&lowerMask != 0 && rel&upperMask != 0 {
		return false
	}

	for _, label := range b.labels[1:] {
		if b.extra(offset ^ uint32(label)).isFixed {
			return false
		}
	}
	return true
}

// reserveID claims slot id, growing the unit array when needed.
func (b *builder) reserveID(id uint32) error {
	for id >= uint32(len(b.units)) {
		if err := b.expandUnits(); err != nil {
			return err
		}
	}
	b.fixID(id)
	return nil
}

// fixID unlinks an allocated slot from the free list.
func (b *builder) fixID(id uint32) {
	if id == b.extrasHead {
		b.extrasHead = b.extra(id).next
		if b.extrasHead == id {
			b.extrasHead = uint32(len(b.units))
		}
	}
	e := b.extra(id)
	b.extra(e.prev).next = e.next
	b.extra(e.next).prev = e.prev
	e.isFixed = true
}

// expandUnits appends one block and links its slots into the free list.
func (b *builder) expandUnits() error {
	srcNumUnits := uint32(len(b.units))
	srcNumBlocks := b.numBlocks()

	destNumUnits := srcNumUnits + blockSize
	destNumBlocks := srcNumBlocks + 1

	if b.opts.MaxUnits > 0 && int(destNumUnits) > b.opts.MaxUnits {
		return fmt.Errorf("%w: %d units requested, limit %d", ErrTooManyUnits, destNumUnits, b.opts.MaxUnits)
	}
	if destNumUnits > unit.MaxOffset {
		return fmt.Errorf("%w: %d units", ErrOffsetOverflow, destNumUnits)
	}

	if destNumBlocks > numExtraBlocks {
		b.fixBlock(srcNumBlocks - numExtraBlocks)
	}

	b.units = slices.Grow(b.units, blockSize)[:destNumUnits]
	clear(b.units[srcNumUnits:])

	if destNumBlocks > numExtraBlocks {
		for id := srcNumUnits; id < destNumUnits; id++ {
			e := b.extra(id)
			e.isUsed = false
			e.isFixed = false
		}
	}

	for i := srcNumUnits + 1; i < destNumUnits; i++ {
		b.extra(i - 1).next = i
		b.extra(i).prev = i - 1
	}

	b.extra(srcNumUnits).prev = destNumUnits - 1
	b.extra(destNumUnits - 1).next = srcNumUnits

	// Splice the new ring in front of the current head.
	b.extra(srcNumUnits).prev = b.extra(b.extrasHead).prev
	b.extra(destNumUnits - 1).next = b.extrasHead

	b.extra(b.extra(b.extrasHead).prev).next = srcNumUnits
	b.extra(b.extrasHead).prev = destNumUnits - 1

	return nil
}

func (b *builder) fixAllBlocks() {
	var begin uint32
	if nb := b.numBlocks(); nb > numExtraBlocks {
		begin = nb - numExtraBlocks
	}
	end := b.numBlocks()
	for blockID := begin; blockID < end; blockID++ {
		b.fixBlock(blockID)
	}
	if b.opts.Logger != nil {
		b.opts.Logger.Debug("fixed trailing blocks", "from", begin, "to", end)
	}
}

// fixBlock claims every remaining slot of a block. Their labels are derived
// from an offset that no node in the block uses, so they never match.
func (b *builder) fixBlock(blockID uint32) {
	begin := blockID * blockSize
	end := begin + blockSize

	var unusedOffset uint32
	for offset := begin; offset != end; offset++ {
		if !b.extra(offset).isUsed {
			unusedOffset = offset
			break
		}
	}

	for id := begin; id != end; id++ {
		if !b.extra(id).isFixed {
			b.fixID(id)
			b.units[id] = b.units[id].WithLabel(byte(id ^ unusedOffset))
		}
	}
}
