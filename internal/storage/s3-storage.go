package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/carriernorth/release-form-api/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage archives the original uploaded documents so a disputed extraction
// can be re-read or re-run against the source later. Objects are grouped per
// extraction and addressed by the uploaded filename.
type Storage interface {
	ArchiveDocument(ctx context.Context, extractionID, filename string, data []byte, contentType string) error
	FetchOriginal(ctx context.Context, extractionID, filename string) ([]byte, error)
	RemoveOriginals(ctx context.Context, extractionID string, filenames []string) error
}

type s3Storage struct {
	client *minio.Client
	bucket string
}

func NewS3Storage(cfg *config.Config) (Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	// Ensure bucket exists
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.S3BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.S3BucketName, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &s3Storage{
		client: client,
		bucket: cfg.S3BucketName,
	}, nil
}

func archiveKey(extractionID, filename string) string {
	return fmt.Sprintf("release-forms/%s/%s", extractionID, filename)
}

func (s *s3Storage) ArchiveDocument(ctx context.Context, extractionID, filename string, data []byte, contentType string) error {
	key := archiveKey(extractionID, filename)

	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}

	return nil
}

func (s *s3Storage) FetchOriginal(ctx context.Context, extractionID, filename string) ([]byte, error) {
	key := archiveKey(extractionID, filename)

	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return data, nil
}

// RemoveOriginals removes every named object for the extraction, returning
// the first error but attempting all removals.
func (s *s3Storage) RemoveOriginals(ctx context.Context, extractionID string, filenames []string) error {
	var firstErr error
	for _, name := range filenames {
		key := archiveKey(extractionID, name)
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	return firstErr
}
