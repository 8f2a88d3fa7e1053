package storage

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"socialhub/internal/pkg/logx"
)

// s3Store implements the MediaStore interface against an S3-compatible bucket.
type s3Store struct {
	cfg      ServiceConfig
	client   *s3.Client
	presign  *s3.PresignClient
	uploader *manager.Uploader
}

// newS3Store initializes the S3 client using a custom configuration that supports S3-compatible endpoints.
func newS3Store(cfg ServiceConfig) (*s3Store, error) {
	sdkCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config.")
		return nil, errors.New("failed to initialize media store configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Store{
		cfg:      cfg,
		client:   client,
		presign:  s3.NewPresignClient(client),
		uploader: manager.NewUploader(client),
	}, nil
}

// Upload streams the body into the bucket under key and returns a presigned
// download URL for the stored object.
func (s *s3Store) Upload(ctx context.Context, key, mimeType string, body io.Reader) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &s.cfg.S3BucketName,
		Key:         &key,
		ContentType: &mimeType,
		Body:        body,
	})
	if err != nil {
		logx.Error(err, "Media upload failed.", "key", key)
		return "", errors.New("failed to upload media file")
	}

	return s.PresignDownload(ctx, key)
}

// PresignUpload generates a presigned URL for uploading a media file with the
// specified key, MIME type, and size. The content type and length are baked
// into the signature, so a client cannot upload something else under the URL.
func (s *s3Store) PresignUpload(ctx context.Context, key, mimeType string, fileSize int64) (string, error) {
	resp, err := s.presign.PresignPutObject(ctx,
		&s3.PutObjectInput{
			Bucket:        &s.cfg.S3BucketName,
			Key:           &key,
			ContentType:   &mimeType,
			ContentLength: &fileSize,
		},
		s3.WithPresignExpires(UploadURLTTL),
	)
	if err != nil {
		logx.Error(err, "Failed to generate presigned upload URL.", "key", key)
		return "", errors.New("failed to generate presigned upload URL")
	}

	return resp.URL, nil
}

// PresignDownload generates a presigned URL for downloading the specified media key.
func (s *s3Store) PresignDownload(ctx context.Context, key string) (string, error) {
	resp, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{
			Bucket: &s.cfg.S3BucketName,
			Key:    &key,
		},
		s3.WithPresignExpires(DownloadURLTTL),
	)
	if err != nil {
		logx.Error(err, "Failed to generate presigned download URL.", "key", key)
		return "", errors.New("failed to generate presigned download URL")
	}

	return resp.URL, nil
}

// Delete removes the media file specified by the given key from the bucket.
func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.cfg.S3BucketName,
		Key:    &key,
	})
	if err != nil {
		logx.Error(err, "Media delete failed.", "key", key)
		return errors.New("failed to delete media file")
	}

	return nil
}
