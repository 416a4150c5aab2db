// Package storage provides an abstraction layer for the save backup vault.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the backup and reconcile features need. The abstraction supports
// both AWS S3 and self-hosted MinIO instances; backups are plain objects
// under <game>/saves/ keys, so any S3 browser can inspect them.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock vault interactions for unit testing (see storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: verify or create the vault bucket.
//   - PutObject: upload a save (with size and options).
//   - GetObject: retrieve a save as a stream.
//   - StatObject: compare remote metadata without downloading.
//   - ListObjects: list backed-up saves (supports prefix/recursive).
//   - RemoveObject(s): drop vault copies of deleted saves.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "cogsaver")
package storage
