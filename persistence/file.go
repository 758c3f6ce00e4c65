package persistence

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/datrie/internal/fs"
	"github.com/hupe1980/datrie/internal/unit"
)

// DumpMode selects how Dump treats an existing file.
type DumpMode uint8

const (
	// DumpOverwrite writes the window in place. The file is created when
	// missing and bytes outside the window are kept, so several tries can
	// share one file. The file only grows.
	DumpOverwrite DumpMode = iota
	// DumpTruncate empties the file first. Bytes before offset read as
	// zeros afterwards.
	DumpTruncate
	// DumpAppend writes the window at the end of the file and ignores
	// offset.
	DumpAppend
)

// String returns the mode name.
func (m DumpMode) String() string {
	switch m {
	case DumpOverwrite:
		return "overwrite"
	case DumpTruncate:
		return "truncate"
	case DumpAppend:
		return "append"
	default:
		return fmt.Sprintf("DumpMode(%d)", uint8(m))
	}
}

// ParseDumpMode accepts the mode names and the stdio modes "r+b", "wb"
// and "ab".
func ParseDumpMode(name string) (DumpMode, error) {
	switch name {
	case "", "overwrite", "r+b":
		return DumpOverwrite, nil
	case "truncate", "wb":
		return DumpTruncate, nil
	case "append", "ab":
		return DumpAppend, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDumpMode, name)
	}
}

// Dump writes the raw form of units to the file at path as selected by
// mode.
func Dump(fsys fs.FileSystem, path string, units []unit.Unit, offset int64, mode DumpMode) (err error) {
	if offset < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}
	if mode > DumpAppend {
		return fmt.Errorf("%w: %s", ErrUnknownDumpMode, mode)
	}
	if fsys == nil {
		fsys = fs.Default
	}

	flag := os.O_WRONLY | os.O_CREATE
	if mode == DumpAppend {
		flag |= os.O_APPEND
	}
	f, err := fsys.OpenFile(path, flag, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &os.PathError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if mode == DumpTruncate {
		if err := f.Truncate(0); err != nil {
			return &os.PathError{Op: "truncate", Path: path, Err: err}
		}
	}
	if mode != DumpAppend {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return &os.PathError{Op: "seek", Path: path, Err: err}
		}
	}

	data := Encode(units)
	n, err := f.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &os.PathError{Op: "write", Path: path, Err: err}
	}

	if err := f.Sync(); err != nil {
		return &os.PathError{Op: "sync", Path: path, Err: err}
	}
	return nil
}

// Load reads sizeUnits units starting at offset in the file at path. A
// sizeUnits of 0 takes everything from offset to the end of the file.
func Load(fsys fs.FileSystem, path string, offset int64, sizeUnits int) ([]unit.Unit, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}
	if sizeUnits < 0 {
		return nil, fmt.Errorf("%w: %d units", ErrInvalidSize, sizeUnits)
	}
	if fsys == nil {
		fsys = fs.Default
	}

	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	count, err := Window(info.Size(), offset, sizeUnits)
	if err != nil {
		return nil, err
	}

	units := make([]unit.Unit, count)
	if _, err := f.ReadAt(unitBytes(units), offset); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: file shrank while reading %s", ErrTruncated, path)
		}
		return nil, &os.PathError{Op: "read", Path: path, Err: err}
	}
	fixByteOrder(units)

	if err := ValidateRoot(units); err != nil {
		return nil, err
	}
	return units, nil
}

// Window resolves the number of units in the window [offset, ...) of
// a file of fileSize bytes.
func Window(fileSize, offset int64, sizeUnits int) (int, error) {
	if offset > fileSize {
		return 0, fmt.Errorf("%w: offset %d beyond file size %d", ErrTruncated, offset, fileSize)
	}
	avail := fileSize - offset

	if sizeUnits == 0 {
		if avail == 0 || avail%unit.Size != 0 {
			return 0, fmt.Errorf("%w: %d bytes after offset %d", ErrMisaligned, avail, offset)
		}
		return int(avail / unit.Size), nil
	}

	if int64(sizeUnits) > avail/unit.Size {
		return 0, fmt.Errorf("%w: want %d units at offset %d, have %d bytes", ErrTruncated, sizeUnits, offset, avail)
	}
	return sizeUnits, nil
}
