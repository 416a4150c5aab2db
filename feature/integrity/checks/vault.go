package checks

import (
	"context"
	"fmt"

	"cogsaver/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrVaultDisabled mirrors storage.ErrDisabled for callers matching on
// check failures.
var ErrVaultDisabled = storage.ErrDisabled

// CheckVault verifies that the backup bucket is reachable and exists.
func CheckVault(ctx context.Context, client storage.Client, bucket string) (bool, error) {
	if client == nil {
		return false, ErrVaultDisabled
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	return exists, nil
}

// FixVault creates the backup bucket.
func FixVault(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger) error {
	if client == nil {
		return ErrVaultDisabled
	}

	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}

	logger.Info("Created missing bucket", zap.String("bucket", bucket))
	return nil
}
