// Package media handles binary media storage on an external object store.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"atelier/internal/config"
	"atelier/internal/models"
)

// Store uploads media and returns a publicly reachable URL. The binary
// itself never touches the database; only the URL is persisted.
type Store interface {
	UploadProfilePicture(ctx context.Context, userID uint, data []byte) (string, error)
	UploadPostImage(ctx context.Context, postKey string, data []byte) (string, error)
}

// ObjectStore is a MinIO/S3-backed Store.
type ObjectStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewObjectStore connects to the object store endpoint from config.
func NewObjectStore(cfg *config.Config) (*ObjectStore, error) {
	endpoint := cfg.MediaEndpoint
	useSSL := cfg.MediaUseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse media endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MediaAccessKey, cfg.MediaSecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store: %w", err)
	}

	publicURL := cfg.MediaPublicURL
	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.MediaBucket)
	}

	return &ObjectStore{
		client:    client,
		bucket:    cfg.MediaBucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBucket creates the media bucket if it does not exist.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// UploadProfilePicture re-encodes the image as a bounded WebP avatar and
// uploads it under a per-user key, so re-uploads replace the old picture.
func (s *ObjectStore) UploadProfilePicture(ctx context.Context, userID uint, data []byte) (string, error) {
	encoded, err := reencodeAvatar(data)
	if err != nil {
		return "", err
	}
	return s.put(ctx, fmt.Sprintf("avatars/%d.webp", userID), encoded, "image/webp")
}

// UploadPostImage validates and uploads a post image as-is.
func (s *ObjectStore) UploadPostImage(ctx context.Context, postKey string, data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return "", models.NewValidationError("unsupported image format")
	}
	ext := "jpg"
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		ext = parts[1]
	}
	return s.put(ctx, fmt.Sprintf("posts/%s.%s", postKey, ext), data, contentType)
}

func (s *ObjectStore) put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", models.NewInternalError(fmt.Errorf("upload %s: %w", key, err))
	}
	return s.publicURL + "/" + key, nil
}
