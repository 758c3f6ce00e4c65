package persistence

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the archive payload encoding.
type Compression uint8

const (
	CompressionNone Compression = 0
	// CompressionLZ4 favours load speed.
	CompressionLZ4 Compression = 1
	// CompressionZstd favours size.
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression maps a name used by String back to a Compression. The
// empty string means none.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "raw":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compress writes data to w in encoding c.
func compress(w io.Writer, data []byte, c Compression) error {
	switch c {
	case CompressionNone:
		_, err := w.Write(data)
		return err

	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		if _, err := zw.Write(data); err != nil {
			return err
		}
		return zw.Close()

	case CompressionZstd:
		enc, err := getZstdEncoder()
		if err != nil {
			return err
		}
		defer putZstdEncoder(enc)

		enc.Reset(w)
		if _, err := enc.Write(data); err != nil {
			return err
		}
		return enc.Close()

	default:
		return fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
}

// decompressor returns a reader yielding the raw payload behind r. release
// must be called once the payload has been consumed.
func decompressor(r io.Reader, c Compression) (_ io.Reader, release func(), _ error) {
	switch c {
	case CompressionNone:
		return r, func() {}, nil

	case CompressionLZ4:
		return lz4.NewReader(r), func() {}, nil

	case CompressionZstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, nil, err
		}
		if err := dec.Reset(r); err != nil {
			putZstdDecoder(dec)
			return nil, nil, err
		}
		return dec, func() { putZstdDecoder(dec) }, nil

	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
}
