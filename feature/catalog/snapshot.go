package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"catalog-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// SnapshotKey returns the object key of the page archived at offset.
func SnapshotKey(prefix string, offset int) string {
	return fmt.Sprintf("%s/offset-%06d.json", strings.TrimRight(prefix, "/"), offset)
}

// SnapshotWriter archives primary pages into object storage.
type SnapshotWriter struct {
	client storage.Client
	bucket string
	prefix string
}

// NewSnapshotWriter creates a writer for bucket/prefix.
func NewSnapshotWriter(client storage.Client, bucket, prefix string) *SnapshotWriter {
	return &SnapshotWriter{client: client, bucket: bucket, prefix: prefix}
}

// Archive stores page under the key for offset, replacing any older copy.
func (w *SnapshotWriter) Archive(ctx context.Context, offset int, page SourcePage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := SnapshotKey(w.prefix, offset)
	_, err = w.client.PutObject(ctx, w.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	return nil
}

// SnapshotSource replays pages archived by SnapshotWriter.
type SnapshotSource struct {
	client storage.Client
	bucket string
	prefix string
}

// NewSnapshotSource creates a source reading bucket/prefix.
func NewSnapshotSource(client storage.Client, bucket, prefix string) *SnapshotSource {
	return &SnapshotSource{client: client, bucket: bucket, prefix: prefix}
}

// Name returns the name of the source.
func (s *SnapshotSource) Name() string {
	return "snapshot"
}

// FetchPage implements Source. A missing snapshot is an empty page.
func (s *SnapshotSource) FetchPage(ctx context.Context, offset, limit int) (SourcePage, error) {
	key := SnapshotKey(s.prefix, offset)

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return SourcePage{}, nil
		}
		return SourcePage{}, fmt.Errorf("%w: snapshot %s: %v", ErrUpstreamUnavailable, key, err)
	}
	defer obj.Close()

	body, err := io.ReadAll(io.LimitReader(obj, maxBodyBytes))
	if err != nil {
		return SourcePage{}, fmt.Errorf("%w: snapshot %s: %v", ErrUpstreamUnavailable, key, err)
	}

	page, err := decodePage(body)
	if err != nil {
		return SourcePage{}, err
	}
	if limit > 0 && len(page.Records) > limit {
		page.Records = page.Records[:limit]
	}
	return page, nil
}
