package mediastore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"simplyblog/internal/config"
)

var ErrUnsupportedImage = errors.New("image should be in jpeg or png format only")

// Store uploads blog images and returns their public URL.
type Store interface {
	UploadImage(ctx context.Context, dataURI string) (string, error)
}

// MinioStore keeps featured images in an object-storage bucket.
type MinioStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

func NewMinioStore(cfg config.Media) (*MinioStore, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("media endpoint is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket, publicBaseURL: strings.TrimSuffix(base, "/")}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

// UploadImage decodes a base64 data URI, verifies it is a jpeg or png and
// stores it under a random key.
func (s *MinioStore) UploadImage(ctx context.Context, dataURI string) (string, error) {
	raw, contentType, ext, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	key := uuid.NewString()[:12] + "." + ext
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(raw), int64(len(raw)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return s.publicBaseURL + "/" + key, nil
}

// DecodeDataURI strips an optional "data:image/...;base64," header, decodes
// the payload and sniffs the real content type.
func DecodeDataURI(data string) (raw []byte, contentType, ext string, err error) {
	if strings.Contains(data, "data:") && strings.Contains(data, ";base64,") {
		_, data, _ = strings.Cut(data, ";base64,")
	}
	raw, err = base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", "", fmt.Errorf("invalid image encoding: %w", err)
	}
	contentType = http.DetectContentType(raw)
	switch contentType {
	case "image/jpeg":
		ext = "jpeg"
	case "image/png":
		ext = "png"
	default:
		return nil, "", "", ErrUnsupportedImage
	}
	return raw, contentType, ext, nil
}
