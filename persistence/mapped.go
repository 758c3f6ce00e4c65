package persistence

import (
	"fmt"
	"io"

	"github.com/hupe1980/datrie/internal/conv"
	"github.com/hupe1980/datrie/internal/mmap"
	"github.com/hupe1980/datrie/internal/unit"
)

// Mapped is a unit window served from a read-only memory mapping.
type Mapped struct {
	c     io.Closer
	units []unit.Unit
}

// Map maps the file at path and exposes the window selected by offset and
// sizeUnits as units without copying. On big-endian hosts, or when offset
// is not unit aligned, the window is copied to the heap and the mapping is
// released immediately.
func Map(path string, offset int64, sizeUnits int) (*Mapped, error) {
	if err := checkWindowArgs(offset, sizeUnits); err != nil {
		return nil, err
	}

	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	_ = m.Advise(mmap.AccessRandom)

	return View(m.Bytes(), m, offset, sizeUnits)
}

// View exposes the window of data selected by offset and sizeUnits as
// units. data must stay valid until c is closed. View takes ownership of c:
// it is closed on failure, when the window has to be copied, and by
// Mapped.Close otherwise.
func View(data []byte, c io.Closer, offset int64, sizeUnits int) (*Mapped, error) {
	if err := checkWindowArgs(offset, sizeUnits); err != nil {
		_ = c.Close()
		return nil, err
	}

	count, err := Window(int64(len(data)), offset, sizeUnits)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	n, err := conv.Int64ToInt(int64(count) * unit.Size)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	window := data[offset : offset+int64(n)]

	var units []unit.Unit
	if nativeLittleEndian {
		units, err = bytesUnits(window)
	}
	if !nativeLittleEndian || err != nil {
		units = decodeCopy(window)
		if err := c.Close(); err != nil {
			return nil, err
		}
		c = nil
	}

	if err := ValidateRoot(units); err != nil {
		if c != nil {
			_ = c.Close()
		}
		return nil, err
	}
	return &Mapped{c: c, units: units}, nil
}

func checkWindowArgs(offset int64, sizeUnits int) error {
	if offset < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}
	if sizeUnits < 0 {
		return fmt.Errorf("%w: %d units", ErrInvalidSize, sizeUnits)
	}
	return nil
}

// Units returns the mapped units. They are invalid after Close.
func (m *Mapped) Units() []unit.Unit {
	return m.units
}

// ZeroCopy reports whether the units alias the mapping.
func (m *Mapped) ZeroCopy() bool {
	return m.c != nil
}

// Close releases the mapping. It is idempotent.
func (m *Mapped) Close() error {
	m.units = nil
	if m.c == nil {
		return nil
	}
	c := m.c
	m.c = nil
	return c.Close()
}
