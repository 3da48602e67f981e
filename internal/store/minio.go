package store

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// imageExts maps accepted MIME types to the object-key extension.
var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore hosts item and profile images in a MinIO bucket. Uploads
// return a stable public URL; deletion parses the object key back out
// of that URL, which is the only identifier the documents keep.
type ImageStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewImageStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ImageStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &ImageStore{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(client.EndpointURL().String(), "/"),
	}, nil
}

// Upload stores the image under a fresh key and returns its URL.
func (s *ImageStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	ext, ok := imageExts[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}
	key := uuid.NewString() + ext

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("minio put: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key), nil
}

// RemoveByURL deletes the object a previously returned URL points at.
func (s *ImageStore) RemoveByURL(ctx context.Context, rawURL string) error {
	key, err := objectKeyFromURL(rawURL, s.bucket)
	if err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// objectKeyFromURL extracts the object key from a hosted image URL of
// the form scheme://endpoint/bucket/key.
func objectKeyFromURL(rawURL, bucket string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse image url: %w", err)
	}
	path := strings.TrimPrefix(u.Path, "/")
	key, ok := strings.CutPrefix(path, bucket+"/")
	if !ok || key == "" {
		return "", fmt.Errorf("image url %q is not in bucket %q", rawURL, bucket)
	}
	return key, nil
}
