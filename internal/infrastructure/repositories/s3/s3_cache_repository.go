package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
)

const (
	backendName = entities.BackendS3
	contentType = "application/json"
)

// S3API is the subset of the AWS SDK client used by the cache, so tests can swap it.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(
		ctx context.Context,
		params *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options),
	) (*s3.ListObjectsV2Output, error)
}

// S3CacheRepository implements repositories.CacheRepository on an S3 bucket.
// Prefix fallback lists the objects under the prefix and picks the latest LastModified.
type S3CacheRepository struct {
	client       S3API
	bucket       string
	objectPrefix string
}

// New loads the default AWS credential chain and creates a cache for the configured bucket.
func New(ctx context.Context, settings entities.CacheSettings) (*S3CacheRepository, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if settings.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(settings.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
		}
		o.UsePathStyle = settings.ForcePathStyle
	})

	return NewWithClient(client, settings.Bucket, settings.ObjectPrefix), nil
}

// NewWithClient creates a cache with a custom S3API implementation.
func NewWithClient(client S3API, bucket, objectPrefix string) *S3CacheRepository {
	return &S3CacheRepository{
		client:       client,
		bucket:       bucket,
		objectPrefix: objectPrefix,
	}
}

func (it *S3CacheRepository) Name() string { return backendName }

func (it *S3CacheRepository) Close() error { return nil }

func (it *S3CacheRepository) Restore(
	ctx context.Context,
	primaryKey string,
	restoreKeys []string,
) (*entities.CacheEntry, error) {
	entry, err := it.getEntry(ctx, primaryKey)
	if !errors.Is(err, entities.ErrCacheMiss) {
		return entry, err
	}

	for _, prefix := range restoreKeys {
		infos, listErr := it.list(ctx, prefix)
		if listErr != nil {
			return nil, listErr
		}
		if latest, found := entities.LatestWithPrefix(infos, prefix); found {
			return it.getEntry(ctx, latest.Key)
		}
	}
	return nil, entities.ErrCacheMiss
}

// Save uploads the snapshot in a single PUT, which S3 publishes atomically.
func (it *S3CacheRepository) Save(ctx context.Context, key string, data []byte) error {
	_, err := it.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(it.bucket),
		Key:           aws.String(it.objectPrefix + key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload cache entry %q to bucket %q: %w", key, it.bucket, err)
	}
	return nil
}

func (it *S3CacheRepository) getEntry(ctx context.Context, key string) (*entities.CacheEntry, error) {
	output, err := it.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(it.bucket),
		Key:    aws.String(it.objectPrefix + key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, entities.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to download cache entry %q: %w", key, err)
	}
	defer func() {
		_ = output.Body.Close()
	}()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry %q: %w", key, err)
	}

	return &entities.CacheEntry{
		Key:     key,
		Data:    data,
		SavedAt: aws.ToTime(output.LastModified),
	}, nil
}

// list returns every key under prefix, stripped of the object prefix.
// LastModified has one-second resolution, so entries saved within the same second
// compare by key text. Timestamp keys still order correctly; content-hash keys do not.
func (it *S3CacheRepository) list(ctx context.Context, prefix string) ([]entities.CacheKeyInfo, error) {
	var infos []entities.CacheKeyInfo

	paginator := s3.NewListObjectsV2Paginator(it.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(it.bucket),
		Prefix: aws.String(it.objectPrefix + prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list cache entries under %q: %w", prefix, err)
		}
		for _, object := range page.Contents {
			infos = append(infos, entities.CacheKeyInfo{
				Key:     strings.TrimPrefix(aws.ToString(object.Key), it.objectPrefix),
				SavedAt: aws.ToTime(object.LastModified),
			})
		}
	}
	return infos, nil
}
