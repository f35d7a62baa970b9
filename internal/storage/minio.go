package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"posadmin/internal/config"
	"posadmin/internal/model"
)

// minioStore implements AssetStore on an S3-compatible backend (MinIO,
// AWS S3, etc.). Containers map to key prefixes inside one configured
// bucket. Safe for concurrent use.
type minioStore struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates the cloud asset store. It validates connectivity and
// ensures the bucket exists, creating it when missing.
func NewMinIO(cfg config.MinIOConfig) (AssetStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStore{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

func (m *minioStore) objectName(ref model.AssetRef) string {
	return path.Join(ref.Container, ref.Key)
}

func (m *minioStore) Save(ctx context.Context, container string, up Upload) (model.AssetRef, error) {
	ref := model.AssetRef{Container: container, Key: newKey(up.Filename)}

	opts := minio.PutObjectOptions{
		ContentType:  up.ContentType,
		UserMetadata: map[string]string{"original-filename": up.Filename},
	}
	if _, err := m.client.PutObject(ctx, m.bucket, m.objectName(ref), up.Reader, up.Size, opts); err != nil {
		return model.AssetRef{}, fmt.Errorf("put object: %w", err)
	}
	return ref, nil
}

func (m *minioStore) Replace(ctx context.Context, container string, up Upload, prev model.AssetRef) (model.AssetRef, error) {
	ref, err := m.Save(ctx, container, up)
	if err != nil {
		return model.AssetRef{}, err
	}
	if prev.Key != "" {
		if err := m.Remove(ctx, prev); err != nil {
			logOrphan(prev, err)
		}
	}
	return ref, nil
}

// Remove deletes an object. S3 delete is idempotent; removing an absent key
// succeeds.
func (m *minioStore) Remove(ctx context.Context, ref model.AssetRef) error {
	return m.client.RemoveObject(ctx, m.bucket, m.objectName(ref), minio.RemoveObjectOptions{})
}
