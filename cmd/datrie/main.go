// Command datrie builds and queries double-array tries.
//
// Keys are read one per line, optionally followed by a tab and a value.
// Tries can be written as raw dumps or archives, to local files or to
// s3://bucket/key and minio://bucket/key locations.
//
// Every flag can also be set through a DATRIE_ environment variable, for
// example DATRIE_S3_REGION for --s3-region. .env and .env.local in the
// working directory are loaded first.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
