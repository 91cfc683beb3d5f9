//go:build unit

package minio_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	minioRepo "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/minio"
)

// fakeMinio is an in-memory bucket implementing MinioAPI and the download function.
type fakeMinio struct {
	objects map[string][]byte
	infos   map[string]minio.ObjectInfo
	tick    int64
	statErr error
	listErr error
	putErr  error
}

func newFakeMinio() *fakeMinio {
	return &fakeMinio{objects: map[string][]byte{}, infos: map[string]minio.ObjectInfo{}}
}

func (f *fakeMinio) StatObject(
	_ context.Context, _, objectName string, _ minio.StatObjectOptions,
) (minio.ObjectInfo, error) {
	if f.statErr != nil {
		return minio.ObjectInfo{}, f.statErr
	}
	info, ok := f.infos[objectName]
	if !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", Key: objectName}
	}
	return info, nil
}

func (f *fakeMinio) ListObjects(
	_ context.Context, _ string, opts minio.ListObjectsOptions,
) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(f.infos)+1)
	if f.listErr != nil {
		ch <- minio.ObjectInfo{Err: f.listErr}
	} else {
		for name, info := range f.infos {
			if strings.HasPrefix(name, opts.Prefix) {
				ch <- info
			}
		}
	}
	close(ch)
	return ch
}

func (f *fakeMinio) PutObject(
	_ context.Context,
	_, objectName string,
	reader io.Reader,
	_ int64,
	_ minio.PutObjectOptions,
) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.tick++
	f.objects[objectName] = data
	f.infos[objectName] = minio.ObjectInfo{Key: objectName, LastModified: time.Unix(f.tick, 0)}
	return minio.UploadInfo{Key: objectName}, nil
}

func (f *fakeMinio) download(_ context.Context, _, objectName string) ([]byte, error) {
	data, ok := f.objects[objectName]
	if !ok {
		return nil, minio.ErrorResponse{Code: "NoSuchKey", Key: objectName}
	}
	return data, nil
}

func newRepo(client *fakeMinio) *minioRepo.MinioCacheRepository {
	return minioRepo.NewWithClient(client, client.download, "snapshots", "ci/")
}

func TestMinioCacheRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("should restore an exact key", func(t *testing.T) {
		t.Parallel()

		// given
		client := newFakeMinio()
		repo := newRepo(client)
		require.NoError(t, repo.Save(ctx, "mc-1", []byte("one")))

		// when
		entry, err := repo.Restore(ctx, "mc-1", nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, "mc-1", entry.Key)
		assert.Equal(t, []byte("one"), entry.Data)
		assert.Equal(t, time.Unix(1, 0), entry.SavedAt)
	})

	t.Run("should fall back to the newest object under the prefix", func(t *testing.T) {
		t.Parallel()

		// given
		client := newFakeMinio()
		repo := newRepo(client)
		require.NoError(t, repo.Save(ctx, "mc-9", []byte("older")))
		require.NoError(t, repo.Save(ctx, "mc-1", []byte("newer")))
		require.NoError(t, repo.Save(ctx, "zz-5", []byte("unrelated")))

		// when
		entry, err := repo.Restore(ctx, "mc-0", []string{"mc-"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "mc-1", entry.Key)
		assert.Equal(t, []byte("newer"), entry.Data)
		assert.Contains(t, client.objects, "ci/mc-1")
	})

	t.Run("should report a miss when nothing matches", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newRepo(newFakeMinio())

		// when
		entry, err := repo.Restore(ctx, "mc-0", []string{"mc-"})

		// then
		require.ErrorIs(t, err, entities.ErrCacheMiss)
		assert.Nil(t, entry)
	})

	t.Run("should surface stat failures other than a missing object", func(t *testing.T) {
		t.Parallel()

		// given
		client := newFakeMinio()
		client.statErr = minio.ErrorResponse{Code: "AccessDenied", Message: "Access Denied."}
		repo := newRepo(client)

		// when
		_, err := repo.Restore(ctx, "mc-0", []string{"mc-"})

		// then
		require.Error(t, err)
		assert.NotErrorIs(t, err, entities.ErrCacheMiss)
		assert.Contains(t, err.Error(), "failed to stat cache entry")
	})

	t.Run("should surface listing failures", func(t *testing.T) {
		t.Parallel()

		// given
		client := newFakeMinio()
		client.listErr = errors.New("connection refused")
		repo := newRepo(client)

		// when
		_, err := repo.Restore(ctx, "mc-0", []string{"mc-"})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("should wrap upload failures", func(t *testing.T) {
		t.Parallel()

		// given
		client := newFakeMinio()
		client.putErr = errors.New("bucket quota exceeded")
		repo := newRepo(client)

		// when
		err := repo.Save(ctx, "mc-1", []byte("payload"))

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket quota exceeded")
		assert.Equal(t, entities.BackendMinio, repo.Name())
	})
}
