//go:build unit

package s3_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	s3Repo "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/s3"
)

type storedObject struct {
	data         []byte
	lastModified time.Time
}

// fakeS3 is an in-memory bucket that lists one object per page.
type fakeS3 struct {
	objects   map[string]storedObject
	tick      int64
	getErr    error
	putErr    error
	listCalls int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]storedObject{}}
}

func (f *fakeS3) GetObject(
	_ context.Context,
	params *s3.GetObjectInput,
	_ ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	object, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{
		Body:         io.NopCloser(bytes.NewReader(object.data)),
		LastModified: aws.Time(object.lastModified),
	}, nil
}

func (f *fakeS3) PutObject(
	_ context.Context,
	params *s3.PutObjectInput,
	_ ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.tick++
	f.objects[aws.ToString(params.Key)] = storedObject{data: data, lastModified: time.Unix(f.tick, 0)}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(
	_ context.Context,
	params *s3.ListObjectsV2Input,
	_ ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	f.listCalls++

	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(params.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	offset := 0
	if params.ContinuationToken != nil {
		offset, _ = strconv.Atoi(*params.ContinuationToken)
	}
	output := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if offset < len(keys) {
		key := keys[offset]
		output.Contents = []types.Object{{
			Key:          aws.String(key),
			LastModified: aws.Time(f.objects[key].lastModified),
		}}
	}
	if offset+1 < len(keys) {
		output.IsTruncated = aws.Bool(true)
		output.NextContinuationToken = aws.String(strconv.Itoa(offset + 1))
	}
	return output, nil
}

func TestS3CacheRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("should store entries under the object prefix", func(t *testing.T) {
		t.Parallel()

		// given
		client := newFakeS3()
		repo := s3Repo.NewWithClient(client, "snapshots", "manifestwatch/")

		// when
		err := repo.Save(ctx, "mc-1", []byte("payload"))

		// then
		require.NoError(t, err)
		assert.Contains(t, client.objects, "manifestwatch/mc-1")
		assert.Equal(t, []byte("payload"), client.objects["manifestwatch/mc-1"].data)
	})

	t.Run("should restore an exact key without listing", func(t *testing.T) {
		t.Parallel()

		// given
		client := newFakeS3()
		repo := s3Repo.NewWithClient(client, "snapshots", "manifestwatch/")
		require.NoError(t, repo.Save(ctx, "mc-1", []byte("one")))

		// when
		entry, err := repo.Restore(ctx, "mc-1", []string{"mc-"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "mc-1", entry.Key)
		assert.Equal(t, []byte("one"), entry.Data)
		assert.Zero(t, client.listCalls)
	})

	t.Run("should fall back to the newest object across pages", func(t *testing.T) {
		t.Parallel()

		// given
		client := newFakeS3()
		repo := s3Repo.NewWithClient(client, "snapshots", "manifestwatch/")
		require.NoError(t, repo.Save(ctx, "mc-3", []byte("oldest")))
		require.NoError(t, repo.Save(ctx, "mc-1", []byte("newest")))
		require.NoError(t, repo.Save(ctx, "other-9", []byte("unrelated")))
		require.NoError(t, repo.Save(ctx, "mc-2", []byte("middle")))
		client.objects["manifestwatch/mc-2"] = storedObject{data: []byte("middle"), lastModified: time.Unix(0, 0)}

		// when
		entry, err := repo.Restore(ctx, "mc-0", []string{"mc-"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "mc-1", entry.Key)
		assert.Equal(t, []byte("newest"), entry.Data)
		assert.Equal(t, 3, client.listCalls)
	})

	t.Run("should break same-second ties by key text", func(t *testing.T) {
		t.Parallel()

		// given
		client := newFakeS3()
		repo := s3Repo.NewWithClient(client, "snapshots", "manifestwatch/")
		require.NoError(t, repo.Save(ctx, "mc-b2c3d4e5f6a1", []byte("saved first")))
		require.NoError(t, repo.Save(ctx, "mc-a1b2c3d4e5f6", []byte("saved second")))
		sameSecond := time.Unix(1690000000, 0)
		for key, object := range client.objects {
			object.lastModified = sameSecond
			client.objects[key] = object
		}

		// when
		entry, err := repo.Restore(ctx, "mc-0", []string{"mc-"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "mc-b2c3d4e5f6a1", entry.Key)
		assert.Equal(t, sameSecond, entry.SavedAt)
	})

	t.Run("should report a miss when nothing matches", func(t *testing.T) {
		t.Parallel()

		// given
		client := newFakeS3()
		repo := s3Repo.NewWithClient(client, "snapshots", "")

		// when
		entry, err := repo.Restore(ctx, "mc-0", []string{"mc-"})

		// then
		require.ErrorIs(t, err, entities.ErrCacheMiss)
		assert.Nil(t, entry)
	})

	t.Run("should surface download failures other than a missing key", func(t *testing.T) {
		t.Parallel()

		// given
		client := newFakeS3()
		client.getErr = errors.New("access denied")
		repo := s3Repo.NewWithClient(client, "snapshots", "")

		// when
		_, err := repo.Restore(ctx, "mc-0", []string{"mc-"})

		// then
		require.Error(t, err)
		assert.NotErrorIs(t, err, entities.ErrCacheMiss)
		assert.Contains(t, err.Error(), "access denied")
	})

	t.Run("should wrap upload failures", func(t *testing.T) {
		t.Parallel()

		// given
		client := newFakeS3()
		client.putErr = errors.New("slow down")
		repo := s3Repo.NewWithClient(client, "snapshots", "")

		// when
		err := repo.Save(ctx, "mc-1", []byte("payload"))

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), `bucket "snapshots"`)
		assert.Equal(t, entities.BackendS3, repo.Name())
	})
}
