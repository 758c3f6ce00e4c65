package persistence

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/datrie/internal/builder"
	"github.com/hupe1980/datrie/internal/fs"
	"github.com/hupe1980/datrie/internal/hash"
	"github.com/hupe1980/datrie/internal/keyset"
	"github.com/hupe1980/datrie/internal/search"
	"github.com/hupe1980/datrie/internal/unit"
	"github.com/hupe1980/datrie/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildUnits(t *testing.T, keys []string, values []int32) []unit.Unit {
	t.Helper()
	ks, err := keyset.FromStrings(keys, values)
	require.NoError(t, err)
	units, err := builder.Build(ks)
	require.NoError(t, err)
	return units
}

func scenarioUnits(t *testing.T) []unit.Unit {
	return buildUnits(t, []string{"he", "hell", "hello", "world"}, []int32{2, 3, 0, 1})
}

func TestEncodeDecode(t *testing.T) {
	units := scenarioUnits(t)

	raw := Encode(units)
	require.Len(t, raw, len(units)*unit.Size)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, units, decoded)

	// Raw bytes are little-endian regardless of the host.
	assert.Equal(t, uint32(units[0]), uint32(raw[0])|uint32(raw[1])<<8|uint32(raw[2])<<16|uint32(raw[3])<<24)
}

func TestDecode_Unaligned(t *testing.T) {
	units := scenarioUnits(t)
	raw := Encode(units)

	shifted := make([]byte, len(raw)+1)
	copy(shifted[1:], raw)

	decoded, err := Decode(shifted[1:])
	require.NoError(t, err)
	assert.Equal(t, units, decoded)
}

func TestDecode_Misaligned(t *testing.T) {
	_, err := Decode(make([]byte, 7))
	assert.ErrorIs(t, err, ErrMisaligned)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrMisaligned)
}

func TestWriteReadUnits(t *testing.T) {
	units := scenarioUnits(t)

	var buf bytes.Buffer
	require.NoError(t, WriteUnits(&buf, units))

	got, err := ReadUnits(bytes.NewReader(buf.Bytes()), len(units))
	require.NoError(t, err)
	assert.Equal(t, units, got)

	_, err = ReadUnits(bytes.NewReader(buf.Bytes()[:10]), len(units))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestValidateRoot(t *testing.T) {
	assert.NoError(t, ValidateRoot(scenarioUnits(t)))
	assert.ErrorIs(t, ValidateRoot(nil), ErrMisaligned)
	assert.ErrorIs(t, ValidateRoot(make([]unit.Unit, 256)), ErrBadRoot)
	assert.ErrorIs(t, ValidateRoot([]unit.Unit{unit.NewValue(7), 0}), ErrBadRoot)
}

func TestDumpLoad_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(11)
	keys := rng.UniqueKeys(2000, 1, 12, testutil.AlphabetLower)
	values := rng.Values(len(keys), unit.MaxValue)
	ks, err := keyset.New(keys, values)
	require.NoError(t, err)
	units, err := builder.Build(ks)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dict.da")
	require.NoError(t, Dump(nil, path, units, 0, DumpOverwrite))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(units)*unit.Size), info.Size())

	loaded, err := Load(nil, path, 0, 0)
	require.NoError(t, err)
	require.Equal(t, units, loaded)

	for i, k := range keys {
		v, ok := search.ExactMatch(loaded, k, 0)
		require.True(t, ok, "key %q", k)
		require.Equal(t, values[i], v)
	}
}

func TestDump_PreservesSurroundingBytes(t *testing.T) {
	units := scenarioUnits(t)
	path := filepath.Join(t.TempDir(), "container.bin")

	prefix := []byte("CONTAINER-HEADER")
	trailer := bytes.Repeat([]byte{0x5A}, 10000)
	require.NoError(t, os.WriteFile(path, append(bytes.Clone(prefix), trailer...), 0o644))

	offset := int64(len(prefix))
	require.NoError(t, Dump(nil, path, units, offset, DumpOverwrite))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, len(prefix)+len(trailer))
	assert.Equal(t, prefix, data[:len(prefix)])
	end := len(prefix) + len(units)*unit.Size
	assert.Equal(t, trailer[end-len(prefix):], data[end:])

	loaded, err := Load(nil, path, offset, len(units))
	require.NoError(t, err)
	assert.Equal(t, units, loaded)
}

func TestDump_RewriteKeepsLaterWindow(t *testing.T) {
	first := scenarioUnits(t)
	second := buildUnits(t, []string{"a", "ab", "abc"}, nil)
	path := filepath.Join(t.TempDir(), "shared.da")

	const secondOffset = 1 << 16
	require.NoError(t, Dump(nil, path, first, 0, DumpOverwrite))
	require.NoError(t, Dump(nil, path, second, secondOffset, DumpOverwrite))
	require.NoError(t, Dump(nil, path, first, 0, DumpOverwrite))

	got, err := Load(nil, path, secondOffset, len(second))
	require.NoError(t, err)
	assert.Equal(t, second, got)

	got, err = Load(nil, path, 0, len(first))
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestDump_Truncate(t *testing.T) {
	units := scenarioUnits(t)
	path := filepath.Join(t.TempDir(), "fresh.da")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xFF}, 1<<16), 0o644))

	require.NoError(t, Dump(nil, path, units, 8, DumpTruncate))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 8+len(units)*unit.Size)
	assert.Equal(t, make([]byte, 8), data[:8])

	loaded, err := Load(nil, path, 8, 0)
	require.NoError(t, err)
	assert.Equal(t, units, loaded)
}

func TestDump_Append(t *testing.T) {
	first := scenarioUnits(t)
	second := buildUnits(t, []string{"x", "xy"}, []int32{7, 9})
	path := filepath.Join(t.TempDir(), "log.da")

	require.NoError(t, Dump(nil, path, first, 0, DumpAppend))
	require.NoError(t, Dump(nil, path, second, 12345, DumpAppend))

	got, err := Load(nil, path, int64(len(first)*unit.Size), 0)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	got, err = Load(nil, path, 0, len(first))
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestParseDumpMode(t *testing.T) {
	cases := map[string]DumpMode{
		"":          DumpOverwrite,
		"overwrite": DumpOverwrite,
		"r+b":       DumpOverwrite,
		"truncate":  DumpTruncate,
		"wb":        DumpTruncate,
		"append":    DumpAppend,
		"ab":        DumpAppend,
	}
	for name, want := range cases {
		got, err := ParseDumpMode(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseDumpMode("rb")
	assert.ErrorIs(t, err, ErrUnknownDumpMode)
	err = Dump(nil, filepath.Join(t.TempDir(), "x.da"), scenarioUnits(t), 0, DumpMode(9))
	assert.ErrorIs(t, err, ErrUnknownDumpMode)
	assert.Equal(t, "append", DumpAppend.String())
}

func TestDumpLoad_SharedFile(t *testing.T) {
	first := scenarioUnits(t)
	second := buildUnits(t, []string{"a", "ab", "abc"}, nil)
	path := filepath.Join(t.TempDir(), "shared.da")

	require.NoError(t, Dump(nil, path, first, 0, DumpOverwrite))
	secondOffset := int64(len(first) * unit.Size)
	require.NoError(t, Dump(nil, path, second, secondOffset, DumpOverwrite))

	got, err := Load(nil, path, 0, len(first))
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = Load(nil, path, secondOffset, 0)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	v, ok := search.ExactMatch(got, []byte("abc"), 0)
	require.True(t, ok)
	assert.Equal(t, int32(2), v)
}

func TestDump_BeyondEndExtends(t *testing.T) {
	units := scenarioUnits(t)
	path := filepath.Join(t.TempDir(), "sparse.da")

	require.NoError(t, Dump(nil, path, units, 4096, DumpOverwrite))

	loaded, err := Load(nil, path, 4096, 0)
	require.NoError(t, err)
	assert.Equal(t, units, loaded)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	units := scenarioUnits(t)
	good := filepath.Join(dir, "good.da")
	require.NoError(t, Dump(nil, good, units, 0, DumpOverwrite))

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(nil, filepath.Join(dir, "missing.da"), 0, 0)
		assert.ErrorIs(t, err, os.ErrNotExist)
		var pathErr *os.PathError
		assert.ErrorAs(t, err, &pathErr)
	})

	t.Run("misaligned", func(t *testing.T) {
		path := filepath.Join(dir, "odd.da")
		require.NoError(t, os.WriteFile(path, append(Encode(units), 0xAB), 0o644))
		_, err := Load(nil, path, 0, 0)
		assert.ErrorIs(t, err, ErrMisaligned)
	})

	t.Run("empty window", func(t *testing.T) {
		_, err := Load(nil, good, int64(len(units)*unit.Size), 0)
		assert.ErrorIs(t, err, ErrMisaligned)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Load(nil, good, 0, len(units)+1)
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("offset beyond end", func(t *testing.T) {
		_, err := Load(nil, good, 1<<20, 0)
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("bad root", func(t *testing.T) {
		path := filepath.Join(dir, "zeros.da")
		require.NoError(t, os.WriteFile(path, make([]byte, 1024), 0o644))
		_, err := Load(nil, path, 0, 0)
		assert.ErrorIs(t, err, ErrBadRoot)
	})

	t.Run("negative arguments", func(t *testing.T) {
		_, err := Load(nil, good, -1, 0)
		assert.ErrorIs(t, err, ErrInvalidOffset)
		_, err = Load(nil, good, 0, -1)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})
}

func TestDump_Faults(t *testing.T) {
	units := scenarioUnits(t)
	boom := errors.New("disk on fire")

	cases := []struct {
		name  string
		mode  DumpMode
		fault fs.Fault
	}{
		{"open", DumpOverwrite, fs.Fault{FailOnOpen: true, FailAfterBytes: -1, Err: boom}},
		{"write", DumpOverwrite, fs.Fault{FailAfterBytes: 16, Err: boom}},
		{"truncate", DumpTruncate, fs.Fault{FailOnTruncate: true, FailAfterBytes: -1, Err: boom}},
		{"sync", DumpOverwrite, fs.Fault{FailOnSync: true, FailAfterBytes: -1, Err: boom}},
		{"close", DumpAppend, fs.Fault{FailOnClose: true, FailAfterBytes: -1, Err: boom}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ffs := fs.NewFaultyFS(nil)
			ffs.AddRule("dict.da", tc.fault)

			err := Dump(ffs, filepath.Join(t.TempDir(), "dict.da"), units, 0, tc.mode)
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestLoad_ReadFault(t *testing.T) {
	units := scenarioUnits(t)
	path := filepath.Join(t.TempDir(), "dict.da")
	require.NoError(t, Dump(nil, path, units, 0, DumpOverwrite))

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("dict.da", fs.Fault{FailOnRead: true, FailAfterBytes: -1})

	_, err := Load(ffs, path, 0, 0)
	assert.ErrorIs(t, err, fs.ErrInjected)
	var pathErr *os.PathError
	assert.ErrorAs(t, err, &pathErr)
}

func TestMap(t *testing.T) {
	units := scenarioUnits(t)
	path := filepath.Join(t.TempDir(), "mapped.da")
	require.NoError(t, Dump(nil, path, units, 0, DumpOverwrite))

	m, err := Map(path, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, units, m.Units())
	assert.Equal(t, ZeroCopy(), m.ZeroCopy())

	v, ok := search.ExactMatch(m.Units(), []byte("hell"), 0)
	require.True(t, ok)
	assert.Equal(t, int32(3), v)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Nil(t, m.Units())
}

type closeCounter struct{ n int }

func (c *closeCounter) Close() error {
	c.n++
	return nil
}

func TestView(t *testing.T) {
	units := scenarioUnits(t)
	data := append([]byte("HEAD"), Encode(units)...)

	c := &closeCounter{}
	m, err := View(data, c, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, units, m.Units())
	assert.Equal(t, m.ZeroCopy(), c.n == 0)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Equal(t, 1, c.n)

	c = &closeCounter{}
	_, err = View(data, c, 4, len(units)+1)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 1, c.n)

	c = &closeCounter{}
	_, err = View(data, c, -4, 0)
	assert.ErrorIs(t, err, ErrInvalidOffset)
	assert.Equal(t, 1, c.n)
}

func TestMap_OddOffsetCopies(t *testing.T) {
	units := scenarioUnits(t)
	path := filepath.Join(t.TempDir(), "odd.da")
	require.NoError(t, os.WriteFile(path, []byte{0xFF}, 0o644))
	require.NoError(t, Dump(nil, path, units, 1, DumpOverwrite))

	m, err := Map(path, 1, len(units))
	require.NoError(t, err)
	defer m.Close()

	assert.False(t, m.ZeroCopy())
	assert.Equal(t, units, m.Units())
}

func TestMap_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Map(filepath.Join(dir, "missing.da"), 0, 0)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "zeros.da")
	require.NoError(t, os.WriteFile(path, make([]byte, 1024), 0o644))
	_, err = Map(path, 0, 0)
	assert.ErrorIs(t, err, ErrBadRoot)

	_, err = Map(path, 0, 1000)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestArchive_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(21)
	keys := rng.SharedPrefixKeys(3000, 6)
	ks, err := keyset.New(keys, nil)
	require.NoError(t, err)
	units, err := builder.Build(ks)
	require.NoError(t, err)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteArchive(&buf, units, c))

			if c != CompressionNone {
				assert.Less(t, buf.Len(), len(units)*unit.Size)
			}

			got, header, err := ReadArchive(&buf)
			require.NoError(t, err)
			assert.Equal(t, c, header.Compression)
			assert.Equal(t, uint32(len(units)), header.Units)
			assert.Equal(t, units, got)
		})
	}
}

func TestArchive_HeaderLayout(t *testing.T) {
	units := scenarioUnits(t)

	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, units, CompressionNone))
	data := buf.Bytes()

	require.Len(t, data, ArchiveHeaderSize+len(units)*unit.Size)
	assert.Equal(t, ArchiveMagic, string(data[:4]))
	assert.Equal(t, byte(ArchiveVersion), data[4])
	assert.Equal(t, Encode(units), data[ArchiveHeaderSize:])
}

func TestArchive_Corruption(t *testing.T) {
	units := scenarioUnits(t)

	encode := func(c Compression) []byte {
		var buf bytes.Buffer
		require.NoError(t, WriteArchive(&buf, units, c))
		return buf.Bytes()
	}

	t.Run("checksum", func(t *testing.T) {
		data := encode(CompressionNone)
		data[ArchiveHeaderSize+8] ^= 0x01
		_, _, err := ReadArchive(bytes.NewReader(data))
		assert.ErrorIs(t, err, hash.ErrChecksumMismatch)
	})

	t.Run("magic", func(t *testing.T) {
		data := encode(CompressionNone)
		data[0] = 'X'
		_, _, err := ReadArchive(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("version", func(t *testing.T) {
		data := encode(CompressionNone)
		data[4] = 99
		_, _, err := ReadArchive(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})

	t.Run("compression", func(t *testing.T) {
		data := encode(CompressionNone)
		data[5] = 42
		_, _, err := ReadArchive(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrUnknownCompression)
	})

	t.Run("short header", func(t *testing.T) {
		_, _, err := ReadArchive(bytes.NewReader([]byte("DATR")))
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("short payload", func(t *testing.T) {
		data := encode(CompressionNone)
		_, _, err := ReadArchive(bytes.NewReader(data[:len(data)-4]))
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("garbage zstd", func(t *testing.T) {
		data := encode(CompressionZstd)
		for i := ArchiveHeaderSize; i < len(data); i++ {
			data[i] = 0x5A
		}
		_, _, err := ReadArchive(bytes.NewReader(data))
		assert.Error(t, err)
	})
}

func TestArchive_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, nil, CompressionLZ4))

	units, header, err := ReadArchive(&buf)
	require.NoError(t, err)
	assert.Empty(t, units)
	assert.Zero(t, header.Units)
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]Compression{"": CompressionNone, "raw": CompressionNone, "LZ4": CompressionLZ4, "zstd": CompressionZstd} {
		got, err := ParseCompression(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)
}
