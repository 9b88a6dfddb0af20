package minio

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/agrolease/agrolease-backend/internal/app/config"
	"github.com/agrolease/agrolease-backend/internal/port/storage"
)

// MediaStorage stores listing images in a MinIO bucket. The bucket object
// key doubles as the media handle: it is the only thing needed to delete an
// asset later.
type MediaStorage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewMediaStorage(cfg *config.MinioConfig, logger *zap.Logger) (*MediaStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	err = client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), cfg.Bucket)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", cfg.Bucket, err, errBucketExists)
		}
	}
	logger.Info("Media storage ready", zap.String("endpoint", cfg.Endpoint), zap.String("bucket", cfg.Bucket))

	return &MediaStorage{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

func (s *MediaStorage) Upload(ctx context.Context, fileName, contentType string, data []byte) (storage.UploadResult, error) {
	ext := filepath.Ext(fileName)
	objectKey := fmt.Sprintf("listings/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("PutObject failed",
			zap.String("bucket", s.bucket), zap.String("object_key", objectKey), zap.Error(err))
		return storage.UploadResult{}, fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	s.logger.Debug("Uploaded media asset",
		zap.String("object_key", objectKey), zap.Int("size_bytes", len(data)))
	return storage.UploadResult{URL: url, ObjectKey: objectKey}, nil
}

// Delete removes one object. Removing a missing object is not an error.
func (s *MediaStorage) Delete(ctx context.Context, objectKey string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove object %s: %w", objectKey, err)
	}
	return nil
}

// DeleteMany removes every given object, continuing past individual
// failures; the first failure is returned so callers can log it.
func (s *MediaStorage) DeleteMany(ctx context.Context, objectKeys []string) error {
	var firstErr error
	for _, key := range objectKeys {
		if err := s.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to remove media object", zap.String("object_key", key), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
