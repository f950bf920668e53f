package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bryanwahyu/acne-dermatologist/internal/application/report"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/history"
)

// objectStore is the part of *minio.Client the archive uses.
type objectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

type Store struct {
	client     objectStore
	bucketName string
	baseURL    string
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{
		client:     cli,
		bucketName: bucket,
		baseURL:    fmt.Sprintf("%s://%s", cli.EndpointURL().Scheme, cli.EndpointURL().Host),
	}, nil
}

// Key is where a record's report lives inside the bucket.
func Key(sessionID string, id history.RecordID) string {
	return path.Join(sessionID, string(id), report.Filename)
}

// ArchiveReport implements history.Archive.
func (s *Store) ArchiveReport(ctx context.Context, sessionID string, r history.Record) (string, error) {
	key := Key(sessionID, r.ID)
	body := []byte(r.Response)

	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:        "text/plain; charset=utf-8",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", report.Filename),
		UserMetadata: map[string]string{
			"skin-type": string(r.SkinType),
			"created":   r.Time(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("put report %s: %w", key, err)
	}

	// URL publik (jika bucket public), kalau private harus generate presigned URL
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucketName, key), nil
}

// Check implements middleware.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %q not found", s.bucketName)
	}
	return nil
}
