package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hupe1980/datrie"
	"github.com/hupe1980/datrie/blobstore"
	minioblob "github.com/hupe1980/datrie/blobstore/minio"
	s3blob "github.com/hupe1980/datrie/blobstore/s3"
	"github.com/hupe1980/datrie/persistence"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
)

// location is a local path or a scheme://bucket/name object reference.
type location struct {
	scheme string // "", "s3" or "minio"
	bucket string
	name   string
}

func parseLocation(s string) (location, error) {
	l, err := parsePrefix(s)
	if err != nil {
		return location{}, err
	}
	if l.remote() && l.name == "" {
		return location{}, fmt.Errorf("location %q must have the form %s://bucket/name", s, l.scheme)
	}
	return l, nil
}

// parsePrefix is parseLocation for listings, where the name is a possibly
// empty prefix.
func parsePrefix(s string) (location, error) {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return location{name: s}, nil
	}
	switch scheme {
	case "s3", "minio":
	default:
		return location{}, fmt.Errorf("unsupported location scheme %q", scheme)
	}
	bucket, name, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return location{}, fmt.Errorf("location %q has no bucket", s)
	}
	return location{scheme: scheme, bucket: bucket, name: name}, nil
}

func (l location) remote() bool {
	return l.scheme != ""
}

func (l location) String() string {
	if !l.remote() {
		return l.name
	}
	return l.scheme + "://" + l.bucket + "/" + l.name
}

func openStore(ctx context.Context, l location) (blobstore.BlobStore, error) {
	switch l.scheme {
	case "s3":
		var opts []s3blob.Option
		if region := viper.GetString("s3-region"); region != "" {
			opts = append(opts, s3blob.WithRegion(region))
		}
		if endpoint := viper.GetString("s3-endpoint"); endpoint != "" {
			opts = append(opts, s3blob.WithEndpoint(endpoint))
		}
		store, err := s3blob.New(ctx, l.bucket, opts...)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "minio":
		client, err := minio.New(viper.GetString("minio-endpoint"), &minio.Options{
			Creds:  credentials.NewStaticV4(viper.GetString("minio-access-key"), viper.GetString("minio-secret-key"), ""),
			Secure: viper.GetBool("minio-secure"),
		})
		if err != nil {
			return nil, err
		}
		return minioblob.NewStore(client, l.bucket, ""), nil
	default:
		return nil, fmt.Errorf("%s is not an object store location", l)
	}
}

// save writes t to l, as an archive or as a raw dump at offset.
func save(ctx context.Context, t *datrie.Trie, l location, offset int64, mode datrie.DumpMode, archive bool, c datrie.Compression) error {
	if !archive {
		if !l.remote() {
			return t.Dump(l.name, offset, datrie.WithDumpMode(mode))
		}
		if offset != 0 {
			return fmt.Errorf("--offset is not supported for %s", l)
		}
		store, err := openStore(ctx, l)
		if err != nil {
			return err
		}
		return t.DumpBlob(ctx, store, l.name)
	}

	var buf bytes.Buffer
	if err := t.WriteArchive(&buf, c); err != nil {
		return err
	}
	if !l.remote() {
		return os.WriteFile(l.name, buf.Bytes(), 0o644)
	}
	store, err := openStore(ctx, l)
	if err != nil {
		return err
	}
	return store.Put(ctx, l.name, buf.Bytes())
}

// load fills t from l. Archives are detected by their magic; everything
// else is read as a raw window of size units at offset.
func load(ctx context.Context, t *datrie.Trie, l location, offset int64, size int, mmap bool) error {
	if !l.remote() {
		isArchive, err := fileIsArchive(l.name, offset)
		if err != nil {
			return err
		}
		switch {
		case isArchive:
			f, err := os.Open(l.name)
			if err != nil {
				return err
			}
			defer f.Close()
			if _, err := f.Seek(offset, io.SeekStart); err != nil {
				return err
			}
			return t.ReadArchive(f)
		case mmap:
			return t.LoadMapped(l.name, offset, size)
		default:
			return t.Load(l.name, offset, size)
		}
	}

	store, err := openStore(ctx, l)
	if err != nil {
		return err
	}
	blob, err := store.Open(ctx, l.name)
	if err != nil {
		return err
	}
	defer blob.Close()

	magic := make([]byte, len(persistence.ArchiveMagic))
	if n, _ := blob.ReadAt(ctx, magic, offset); n == len(magic) && string(magic) == persistence.ArchiveMagic {
		r, err := blob.ReadRange(ctx, offset, blob.Size()-offset)
		if err != nil {
			return err
		}
		defer r.Close()
		return t.ReadArchive(r)
	}
	return t.LoadBlob(ctx, store, l.name, offset, size)
}

// fileIsArchive peeks at the magic. A raw dump starts with the zero label
// byte of its root, so it never matches. Open errors are left to the load.
func fileIsArchive(path string, offset int64) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, nil
	}
	defer f.Close()

	magic := make([]byte, len(persistence.ArchiveMagic))
	n, err := f.ReadAt(magic, offset)
	if err != nil && err != io.EOF {
		return false, err
	}
	return n == len(magic) && string(magic) == persistence.ArchiveMagic, nil
}
