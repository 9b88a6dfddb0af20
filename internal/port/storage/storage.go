package storage

import "context"

// UploadResult is what the media store hands back for one stored file.
// ObjectKey is the only handle that can later delete the asset.
type UploadResult struct {
	URL       string
	ObjectKey string
}

// MediaStorage is the external media host. Delete and DeleteMany are
// idempotent; callers treat their failures as non-fatal.
type MediaStorage interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (UploadResult, error)
	Delete(ctx context.Context, objectKey string) error
	DeleteMany(ctx context.Context, objectKeys []string) error
}
