package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"skazka-server/internal/config"
	"skazka-server/internal/models"
)

// Container - логический раздел хранилища артефактов.
type Container string

const (
	ContainerStories Container = "stories"
	ContainerImages  Container = "images"
	ContainerAudio   Container = "audio"
)

// ArtifactStore определяет операции над артефактами историй (текст, иллюстрация, озвучка).
type ArtifactStore interface {
	// Put загружает данные и возвращает долговременный URL для их чтения.
	// Повторная загрузка по тому же ключу перезаписывает содержимое без ошибки.
	Put(ctx context.Context, container Container, key string, data []byte, contentType string) (string, error)
	// Get возвращает содержимое артефакта. Для несуществующего ключа - models.ErrNotFound.
	Get(ctx context.Context, container Container, key string) ([]byte, error)
	// Delete удаляет артефакт. Удаление несуществующего ключа не является ошибкой.
	Delete(ctx context.Context, container Container, key string) error
	// PresignURL выдает свежий временный URL чтения для существующего объекта.
	// Срок действия подписи ограничен, поэтому сохраненные ссылки
	// перевыпускаются этим методом при каждом чтении.
	PresignURL(ctx context.Context, container Container, key string) (string, error)
	// KeyFromURL восстанавливает контейнер и ключ из ранее выданного URL.
	KeyFromURL(rawURL string) (Container, string, bool)
}

// minioStore - реализация ArtifactStore поверх MinIO / S3-совместимого хранилища.
type minioStore struct {
	client    *minio.Client
	cfg       config.StorageConfig
	logger    *zap.Logger
	bucketsMu sync.Mutex
	buckets   map[string]bool // Бакеты, существование которых уже проверено
}

// NewMinioStore создает новый ArtifactStore поверх MinIO.
// Бакеты создаются лениво при первой загрузке, а не при старте.
func NewMinioStore(cfg config.StorageConfig, logger *zap.Logger) (ArtifactStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &minioStore{
		client:  client,
		cfg:     cfg,
		logger:  logger.Named("MinioStore"),
		buckets: make(map[string]bool),
	}, nil
}

// bucketName возвращает имя бакета для логического контейнера.
func (s *minioStore) bucketName(container Container) string {
	switch container {
	case ContainerStories:
		return s.cfg.StoriesBucket
	case ContainerImages:
		return s.cfg.ImagesBucket
	case ContainerAudio:
		return s.cfg.AudioBucket
	}
	return string(container)
}

// ensureBucket проверяет существование бакета и создает его при необходимости.
func (s *minioStore) ensureBucket(ctx context.Context, bucket string) error {
	s.bucketsMu.Lock()
	defer s.bucketsMu.Unlock()

	if s.buckets[bucket] {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			// Конкурирующий воркер мог создать бакет между проверкой и созданием
			if secondCheck, checkErr := s.client.BucketExists(ctx, bucket); checkErr != nil || !secondCheck {
				return fmt.Errorf("failed to create bucket %q: %w", bucket, err)
			}
		}
		s.logger.Info("Bucket created", zap.String("bucket", bucket))
	}

	s.buckets[bucket] = true
	return nil
}

// Put загружает данные в хранилище и возвращает presigned URL для чтения.
func (s *minioStore) Put(ctx context.Context, container Container, key string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	bucket := s.bucketName(container)
	if err := s.ensureBucket(ctx, bucket); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(
		ctx,
		bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s/%s: %w", bucket, key, err)
	}

	// Выдаем временно подписанный URL; читающие операции перевыпускают
	// его через PresignURL из контейнера и ключа (KeyFromURL).
	presigned, err := s.presign(ctx, bucket, key)
	if err != nil {
		return "", err
	}

	s.logger.Debug("Object uploaded",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("size_bytes", len(data)),
	)
	return presigned, nil
}

// PresignURL выдает свежий временный URL чтения для существующего объекта.
func (s *minioStore) PresignURL(ctx context.Context, container Container, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	return s.presign(ctx, s.bucketName(container), key)
}

// presign подписывает URL чтения объекта на срок URLExpiry.
func (s *minioStore) presign(ctx context.Context, bucket, key string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, bucket, key, s.cfg.URLExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s/%s: %w", bucket, key, err)
	}
	return presigned.String(), nil
}

// Get возвращает содержимое объекта.
func (s *minioStore) Get(ctx context.Context, container Container, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	bucket := s.bucketName(container)

	object, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		var errResp minio.ErrorResponse
		if errors.As(err, &errResp) && (errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket") {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read object %s/%s: %w", bucket, key, err)
	}

	return data, nil
}

// Delete удаляет объект. Отсутствие объекта ошибкой не считается.
func (s *minioStore) Delete(ctx context.Context, container Container, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	bucket := s.bucketName(container)

	err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		var errResp minio.ErrorResponse
		if errors.As(err, &errResp) && (errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket") {
			return nil
		}
		return fmt.Errorf("failed to delete object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// KeyFromURL восстанавливает контейнер и ключ объекта из URL, выданного Put.
// Query-параметры (подпись presigned URL) отбрасываются.
func (s *minioStore) KeyFromURL(rawURL string) (Container, string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", false
	}

	// Путь имеет вид /<bucket>/<key...>
	path := strings.TrimPrefix(parsed.Path, "/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", false
	}

	switch parts[0] {
	case s.cfg.StoriesBucket:
		return ContainerStories, parts[1], true
	case s.cfg.ImagesBucket:
		return ContainerImages, parts[1], true
	case s.cfg.AudioBucket:
		return ContainerAudio, parts[1], true
	}
	return "", "", false
}
