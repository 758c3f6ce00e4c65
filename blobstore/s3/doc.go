// Package s3 stores trie images in Amazon S3.
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("tries/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	err = trie.DumpBlob(ctx, store, "dict.da")
//
// Reads are ranged GETs, so loading one window of a shared object fetches
// only that window. Streamed writes go through the multipart uploader and
// whole-blob Puts carry a CRC32C checksum.
package s3
