package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
)

const (
	backendName  = entities.BackendMinio
	contentType  = "application/json"
	noSuchKey    = "NoSuchKey"
	noSuchObject = "NoSuchObject"
)

// MinioAPI is the subset of *minio.Client used for metadata and uploads.
type MinioAPI interface {
	StatObject(
		ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions,
	) (minio.ObjectInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PutObject(
		ctx context.Context,
		bucketName, objectName string,
		reader io.Reader,
		objectSize int64,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
}

// DownloadFunc reads a whole object into memory.
type DownloadFunc func(ctx context.Context, bucketName, objectName string) ([]byte, error)

// MinioCacheRepository implements repositories.CacheRepository on a MinIO (or any
// S3-compatible) bucket with static credentials.
type MinioCacheRepository struct {
	client       MinioAPI
	download     DownloadFunc
	bucket       string
	objectPrefix string
}

// New connects to the configured endpoint.
func New(settings entities.CacheSettings) (*MinioCacheRepository, error) {
	client, err := minio.New(settings.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(settings.AccessKey, settings.SecretKey, ""),
		Secure: settings.UseSSL,
		Region: settings.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client for %q: %w", settings.Endpoint, err)
	}

	download := func(ctx context.Context, bucketName, objectName string) ([]byte, error) {
		object, getErr := client.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
		if getErr != nil {
			return nil, getErr
		}
		defer func() {
			_ = object.Close()
		}()
		return io.ReadAll(object)
	}

	return NewWithClient(client, download, settings.Bucket, settings.ObjectPrefix), nil
}

// NewWithClient creates a cache with custom client and download implementations.
func NewWithClient(
	client MinioAPI,
	download DownloadFunc,
	bucket, objectPrefix string,
) *MinioCacheRepository {
	return &MinioCacheRepository{
		client:       client,
		download:     download,
		bucket:       bucket,
		objectPrefix: objectPrefix,
	}
}

func (it *MinioCacheRepository) Name() string { return backendName }

func (it *MinioCacheRepository) Close() error { return nil }

func (it *MinioCacheRepository) Restore(
	ctx context.Context,
	primaryKey string,
	restoreKeys []string,
) (*entities.CacheEntry, error) {
	info, err := it.client.StatObject(ctx, it.bucket, it.objectPrefix+primaryKey, minio.StatObjectOptions{})
	if err == nil {
		return it.getEntry(ctx, primaryKey, info)
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("failed to stat cache entry %q: %w", primaryKey, err)
	}

	for _, prefix := range restoreKeys {
		infos, listErr := it.list(ctx, prefix)
		if listErr != nil {
			return nil, listErr
		}
		if latest, found := entities.LatestWithPrefix(infos, prefix); found {
			return it.getEntry(ctx, latest.Key, minio.ObjectInfo{LastModified: latest.SavedAt})
		}
	}
	return nil, entities.ErrCacheMiss
}

func (it *MinioCacheRepository) Save(ctx context.Context, key string, data []byte) error {
	_, err := it.client.PutObject(
		ctx,
		it.bucket,
		it.objectPrefix+key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("failed to upload cache entry %q to bucket %q: %w", key, it.bucket, err)
	}
	return nil
}

func (it *MinioCacheRepository) getEntry(
	ctx context.Context,
	key string,
	info minio.ObjectInfo,
) (*entities.CacheEntry, error) {
	data, err := it.download(ctx, it.bucket, it.objectPrefix+key)
	if err != nil {
		return nil, fmt.Errorf("failed to download cache entry %q: %w", key, err)
	}
	return &entities.CacheEntry{Key: key, Data: data, SavedAt: info.LastModified}, nil
}

func (it *MinioCacheRepository) list(ctx context.Context, prefix string) ([]entities.CacheKeyInfo, error) {
	var infos []entities.CacheKeyInfo
	for object := range it.client.ListObjects(ctx, it.bucket, minio.ListObjectsOptions{
		Prefix:    it.objectPrefix + prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list cache entries under %q: %w", prefix, object.Err)
		}
		infos = append(infos, entities.CacheKeyInfo{
			Key:     strings.TrimPrefix(object.Key, it.objectPrefix),
			SavedAt: object.LastModified,
		})
	}
	return infos, nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == noSuchKey || code == noSuchObject
}
