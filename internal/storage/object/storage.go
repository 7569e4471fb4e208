package object

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
	"gitlab.com/tozd/go/errors"

	"github.com/aliskhannn/image-augmentor/internal/model"
)

// Storage mirrors produced files into an S3-compatible bucket using MinIO.
// Objects keep the directory layout of the scanned tree under a key prefix.
type Storage struct {
	client     *minio.Client
	bucketName string
	prefix     string
	strategy   retry.Strategy
}

// NewStorage creates a new Storage instance connected to the specified MinIO server.
// If the bucket does not exist, it will be created automatically.
func NewStorage(ctx context.Context, endpoint, accessKey, secretKey, bucketName, prefix string, useSSL bool, s retry.Strategy) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, errors.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Storage{
		client:     client,
		bucketName: bucketName,
		prefix:     prefix,
		strategy:   s,
	}, nil
}

// Produced uploads a freshly written output file, retrying transient failures.
func (s *Storage) Produced(ctx context.Context, out model.Output) error {
	key, err := ObjectKey(s.prefix, out.Root, out.Dir, out.Name)
	if err != nil {
		return err
	}

	src := filepath.Join(out.Dir, out.Name)
	err = retry.Do(func() error {
		_, putErr := s.client.FPutObject(ctx, s.bucketName, key, src, minio.PutObjectOptions{
			ContentType: contentType(out.Name),
		})
		return putErr
	}, s.strategy)
	if err != nil {
		return errors.Errorf("failed to upload %s: %w", key, err)
	}

	return nil
}

// ObjectKey maps a file inside root to its key in the bucket.
func ObjectKey(prefix, root, dir, name string) (string, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", errors.Errorf("failed to resolve %s relative to %s: %w", dir, root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("directory %s is outside of %s", dir, root)
	}

	return path.Join(strings.Trim(prefix, "/"), filepath.ToSlash(rel), name), nil
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".bmp":
		return "image/bmp"
	case ".gif":
		return "image/gif"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
