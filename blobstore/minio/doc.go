// Package minio stores trie images on MinIO or any S3-compatible server
// through the MinIO Go client.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "tries", "dicts/")
//	t, err := datrie.LoadBlob(ctx, store, "words.da")
//
// The client pulls in no AWS SDK, which suits air-gapped deployments.
package minio
