package datrie

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hupe1980/datrie/blobstore"
	"github.com/hupe1980/datrie/internal/conv"
	"github.com/hupe1980/datrie/internal/resource"
	"github.com/hupe1980/datrie/internal/unit"
	"github.com/hupe1980/datrie/persistence"
)

// ErrInvalidPath is returned for paths that cannot name a file.
var ErrInvalidPath = errors.New("invalid path")

// Compression selects the payload encoding of an archive.
type Compression = persistence.Compression

// Archive compressions.
const (
	CompressionNone = persistence.CompressionNone
	CompressionLZ4  = persistence.CompressionLZ4
	CompressionZstd = persistence.CompressionZstd
)

// ParseCompression accepts "none", "lz4" and "zstd".
func ParseCompression(name string) (Compression, error) {
	c, err := persistence.ParseCompression(name)
	if err != nil {
		return c, newError(KindValue, err)
	}
	return c, nil
}

func checkPath(path string) error {
	if path == "" || strings.IndexByte(path, 0) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return nil
}

// Load replaces the content with sizeUnits units read at offset from the
// file at path. A sizeUnits of 0 reads up to the end of the file. On
// failure the trie is unchanged.
func (t *Trie) Load(path string, offset int64, sizeUnits int) (err error) {
	start := time.Now()
	var units []unit.Unit
	defer func() {
		t.opts.metricsCollector.RecordLoad(len(units), time.Since(start), err)
		t.opts.logger.LogLoad(context.Background(), path, len(units), err)
	}()

	if err := checkPath(path); err != nil {
		return translateError(err, KindValue)
	}

	units, err = persistence.Load(t.opts.fsys, path, offset, sizeUnits)
	if err == nil {
		err = t.replace(units, nil)
	}
	if err != nil {
		units = nil
		return WithContext(translateError(err, KindIO), fmt.Sprintf("loading %s at offset %d", path, offset))
	}
	return nil
}

// LoadMapped is Load backed by a read-only memory mapping instead of a
// heap copy. The mapping is released by Clear, Close or the next load.
func (t *Trie) LoadMapped(path string, offset int64, sizeUnits int) (err error) {
	start := time.Now()
	var n int
	defer func() {
		t.opts.metricsCollector.RecordLoad(n, time.Since(start), err)
		t.opts.logger.LogLoad(context.Background(), path, n, err)
	}()

	if err := checkPath(path); err != nil {
		return translateError(err, KindValue)
	}

	m, err := persistence.Map(path, offset, sizeUnits)
	if err != nil {
		return WithContext(translateError(err, KindIO), fmt.Sprintf("mapping %s at offset %d", path, offset))
	}
	if !m.ZeroCopy() {
		t.opts.logger.Debug("mapped window copied to heap", "source", path, "platform", persistence.PlatformInfo())
	}
	if err := t.replace(m.Units(), m); err != nil {
		_ = m.Close()
		return translateError(err, KindIO)
	}
	n = len(t.units)
	return nil
}

// ParseDumpMode accepts "overwrite", "truncate" and "append" as well as
// the stdio modes "r+b", "wb" and "ab".
func ParseDumpMode(name string) (DumpMode, error) {
	m, err := persistence.ParseDumpMode(name)
	if err != nil {
		return m, newError(KindValue, err)
	}
	return m, nil
}

// Dump writes the array at offset in the file at path, creating the file
// if needed. By default the window is written in place and all other
// bytes of the file are kept, so tries at other offsets survive. Use
// WithDumpMode to truncate or append instead. Dump of an empty trie fails
// with ErrEmptyTrie.
func (t *Trie) Dump(path string, offset int64, optFns ...DumpOption) (err error) {
	start := time.Now()
	defer func() {
		t.opts.metricsCollector.RecordDump(len(t.units), time.Since(start), err)
		t.opts.logger.LogDump(context.Background(), path, len(t.units), err)
	}()

	if err := checkPath(path); err != nil {
		return translateError(err, KindValue)
	}
	if t.IsEmpty() {
		return translateError(ErrEmptyTrie, KindValue)
	}

	var o dumpOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if err := persistence.Dump(t.opts.fsys, path, t.units, offset, o.mode); err != nil {
		return WithContext(translateError(err, KindIO), fmt.Sprintf("dumping %s at offset %d", path, offset))
	}
	return nil
}

// WriteArchive writes the array to w as a checksummed archive.
func (t *Trie) WriteArchive(w io.Writer, c Compression) (err error) {
	start := time.Now()
	defer func() {
		t.opts.metricsCollector.RecordDump(len(t.units), time.Since(start), err)
		t.opts.logger.LogDump(context.Background(), "archive:"+c.String(), len(t.units), err)
	}()

	if c > CompressionZstd {
		return newError(KindValue, fmt.Errorf("%w: %s", persistence.ErrUnknownCompression, c))
	}
	return translateError(persistence.WriteArchive(w, t.units, c), KindIO)
}

// ReadArchive replaces the content with an archive read from r. An archive
// of an empty trie leaves the trie empty.
func (t *Trie) ReadArchive(r io.Reader) (err error) {
	start := time.Now()
	var units []unit.Unit
	defer func() {
		t.opts.metricsCollector.RecordLoad(len(units), time.Since(start), err)
		t.opts.logger.LogLoad(context.Background(), "archive", len(units), err)
	}()

	units, _, err = persistence.ReadArchive(r)
	if err == nil {
		err = t.replace(units, nil)
	}
	if err != nil {
		units = nil
		return translateError(err, KindIO)
	}
	return nil
}

// DumpBlob uploads the raw array as blob name. Transfers are paced by
// WithIOLimit.
func (t *Trie) DumpBlob(ctx context.Context, store blobstore.BlobStore, name string) (err error) {
	start := time.Now()
	defer func() {
		t.opts.metricsCollector.RecordDump(len(t.units), time.Since(start), err)
		t.opts.logger.LogDump(ctx, name, len(t.units), err)
	}()

	if t.IsEmpty() {
		return translateError(ErrEmptyTrie, KindValue)
	}

	wb, err := store.Create(ctx, name)
	if err != nil {
		return WithContext(translateError(err, KindIO), "creating blob "+name)
	}

	w := resource.NewRateLimitedWriter(ctx, wb, t.rc)
	if err := persistence.WriteUnits(w, t.units); err != nil {
		if a, ok := wb.(blobstore.Abortable); ok {
			_ = a.Abort()
		} else {
			_ = wb.Close()
		}
		return WithContext(translateError(err, KindIO), "writing blob "+name)
	}
	if err := wb.Close(); err != nil {
		return WithContext(translateError(err, KindIO), "committing blob "+name)
	}
	return nil
}

// LoadBlob is Load for a blob. Only the selected window is transferred, so
// one object may hold several tries. Blobs backed by a memory mapping, such
// as those of a LocalStore, are served without copying like LoadMapped.
func (t *Trie) LoadBlob(ctx context.Context, store blobstore.BlobStore, name string, offset int64, sizeUnits int) (err error) {
	start := time.Now()
	var n int
	defer func() {
		t.opts.metricsCollector.RecordLoad(n, time.Since(start), err)
		t.opts.logger.LogLoad(ctx, name, n, err)
	}()

	units, mapped, err := t.readBlob(ctx, store, name, offset, sizeUnits)
	if err == nil {
		if err = t.replace(units, mapped); err != nil && mapped != nil {
			_ = mapped.Close()
		}
	}
	if err != nil {
		return WithContext(translateError(err, KindIO), fmt.Sprintf("loading blob %s at offset %d", name, offset))
	}
	n = len(units)
	return nil
}

func (t *Trie) readBlob(ctx context.Context, store blobstore.BlobStore, name string, offset int64, sizeUnits int) ([]unit.Unit, *persistence.Mapped, error) {
	if offset < 0 {
		return nil, nil, fmt.Errorf("%w: %d", persistence.ErrInvalidOffset, offset)
	}
	if sizeUnits < 0 {
		return nil, nil, fmt.Errorf("%w: %d units", persistence.ErrInvalidSize, sizeUnits)
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	if mb, ok := blob.(blobstore.Mappable); ok {
		data, err := mb.Bytes()
		if err != nil {
			_ = blob.Close()
			return nil, nil, err
		}
		m, err := persistence.View(data, blob, offset, sizeUnits)
		if err != nil {
			return nil, nil, err
		}
		return m.Units(), m, nil
	}
	defer func() { _ = blob.Close() }()

	count, err := persistence.Window(blob.Size(), offset, sizeUnits)
	if err != nil {
		return nil, nil, err
	}
	n, err := conv.Int64ToInt(int64(count) * unit.Size)
	if err != nil {
		return nil, nil, err
	}

	rc, err := blob.ReadRange(ctx, offset, int64(n))
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rc.Close() }()

	units, err := persistence.ReadUnits(resource.NewRateLimitedReader(ctx, rc, t.rc), count)
	if err != nil {
		return nil, nil, err
	}
	if err := persistence.ValidateRoot(units); err != nil {
		return nil, nil, err
	}
	return units, nil, nil
}
