package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"aral_lms_backend/internal/config"
	"aral_lms_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider abstracts where uploaded files land; lesson materials and
// student outputs go through it.
type StorageProvider interface {
	Save(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, fileURL string) error
}

// NewStorageProvider picks the backend from config; anything other than
// "minio" falls back to the local filesystem.
func NewStorageProvider(cfg *config.Config) (StorageProvider, error) {
	if cfg.Storage.Type == "minio" {
		return NewMinioStorage(cfg)
	}
	return &LocalStorage{BasePath: cfg.Storage.LocalPath}, nil
}

// ObjectName builds a collision-free object key, keeping the original
// extension for content-type sniffing on the way back out.
func ObjectName(folder, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)
}

type LocalStorage struct {
	BasePath string
}

func (s *LocalStorage) Save(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := ObjectName(folder, filename)
	fullPath := filepath.Join(s.BasePath, objectName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		os.Remove(fullPath)
		return "", err
	}
	return "/uploads/" + objectName, nil
}

func (s *LocalStorage) Remove(ctx context.Context, fileURL string) error {
	rel := strings.TrimPrefix(fileURL, "/uploads/")
	if rel == fileURL || strings.Contains(rel, "..") {
		return fmt.Errorf("refusing to remove %q", fileURL)
	}
	return os.Remove(filepath.Join(s.BasePath, rel))
}

type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(cfg *config.Config) (*MinioStorage, error) {
	client, err := minio.New(cfg.Storage.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.MinioAccessID, cfg.Storage.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}

	s := &MinioStorage{client: client, bucket: cfg.Storage.MinioBucket}
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		logger.Log.Info("created storage bucket", zap.String("bucket", s.bucket))
	}
	return s, nil
}

func (s *MinioStorage) Save(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := ObjectName(folder, filename)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/%s/%s", s.bucket, objectName), nil
}

func (s *MinioStorage) Remove(ctx context.Context, fileURL string) error {
	objectName := strings.TrimPrefix(fileURL, "/"+s.bucket+"/")
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}
