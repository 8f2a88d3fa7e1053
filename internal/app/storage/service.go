/*
Package storage handles media files (avatars, post images, story images) kept
in an S3-compatible object store. Clients never stream bytes through the API
server: they receive short-lived presigned URLs and talk to the bucket
directly.
*/
package storage

import (
	"context"
	"io"
	"time"

	"socialhub/internal/pkg/errs"
)

const (
	// UploadURLTTL bounds how long a presigned upload URL stays valid.
	UploadURLTTL = 10 * time.Minute

	// DownloadURLTTL bounds how long a presigned download URL stays valid.
	DownloadURLTTL = 1 * time.Hour

	// MaxMediaBytes is the largest accepted media upload.
	MaxMediaBytes = 10 << 20 // 10 MiB
)

// allowed MIME types for media uploads.
var allowedMediaTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// ValidateMediaUpload rejects uploads with an unsupported MIME type or an
// out-of-range size before a presigned URL is issued.
func ValidateMediaUpload(mimeType string, fileSize int64) error {
	if _, ok := allowedMediaTypes[mimeType]; !ok {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}
	if fileSize <= 0 || fileSize > MaxMediaBytes {
		return errs.NewError(errs.ErrInvalidParams, "file size out of range")
	}
	return nil
}

// ServiceConfig holds the configuration required to connect to the media store.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// MediaStore defines the public interface for the media storage service.
type MediaStore interface {
	// Upload streams a small media file (avatars) through the server into
	// the bucket and returns a presigned download URL for it.
	Upload(ctx context.Context, key string, mimeType string, body io.Reader) (string, error)

	// PresignUpload generates a pre-signed URL for uploading a media file.
	PresignUpload(ctx context.Context, key string, mimeType string, fileSize int64) (string, error)

	// PresignDownload generates a pre-signed URL for downloading a media file.
	PresignDownload(ctx context.Context, key string) (string, error)

	// Delete removes the media file specified by the given key.
	Delete(ctx context.Context, key string) error
}

// NewMediaStore initializes and returns a concrete MediaStore backed by an
// S3-compatible bucket.
func NewMediaStore(cfg ServiceConfig) (MediaStore, error) {
	return newS3Store(cfg)
}
