package checks

import (
	"context"
	"errors"
	"fmt"

	"catalog-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// SnapshotReport is the result of a snapshot storage check.
type SnapshotReport struct {
	Enabled      bool   `json:"enabled"`
	Bucket       string `json:"bucket"`
	BucketExists bool   `json:"bucket_exists"`
	FirstPageKey string `json:"first_page_key"`
	FirstPage    bool   `json:"first_page"`
}

// CheckSnapshots reports whether bucket exists and holds firstPageKey.
// A nil client reports storage as disabled.
func CheckSnapshots(ctx context.Context, client storage.Client, bucket, firstPageKey string) (*SnapshotReport, error) {
	report := &SnapshotReport{Bucket: bucket, FirstPageKey: firstPageKey}
	if client == nil {
		return report, nil
	}
	report.Enabled = true

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		return report, nil
	}

	obj, err := client.GetObject(ctx, bucket, firstPageKey, minio.GetObjectOptions{})
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return report, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", firstPageKey, err)
	}
	_ = obj.Close()
	report.FirstPage = true

	return report, nil
}

// FixSnapshots creates the bucket. Archived pages only appear after a
// successful sync run.
func FixSnapshots(ctx context.Context, client storage.Client, bucket string) error {
	if client == nil {
		return fmt.Errorf("object storage is disabled")
	}
	return storage.EnsureBucket(ctx, client, bucket)
}
