package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhunter5/Backend/internal/retry"
)

type fakeS3 struct {
	putErrs   []error
	puts      []string
	deletes   []string
	objects   map[string][]byte
	putCalled int
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putCalled++
	if len(f.putErrs) > 0 {
		err := f.putErrs[0]
		f.putErrs = f.putErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	data, _ := io.ReadAll(in.Body)
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[aws.ToString(in.Key)] = data
	f.puts = append(f.puts, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("no such key")
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(strings.NewReader(string(data))),
		ContentType: aws.String("image/png"),
	}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func newTestStorage(api s3API) *s3Storage {
	return &s3Storage{
		bucket:   "rentals-media",
		region:   "us-east-1",
		policy:   retry.Policy{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		s3Client: api,
	}
}

func TestUpload_RetriesTransientFailure(t *testing.T) {
	api := &fakeS3{putErrs: []error{errors.New("connection reset"), nil}}
	s := newTestStorage(api)

	obj, err := s.Upload(context.Background(), "properties/abc", Attachment{Filename: "front door.jpg", ContentType: "image/jpeg", Data: []byte("img")})

	require.NoError(t, err)
	assert.Equal(t, 2, api.putCalled)
	assert.True(t, strings.HasPrefix(obj.Key, "properties/abc/"))
	assert.True(t, strings.HasSuffix(obj.Key, "_front_door.jpg"))
	assert.Equal(t, "https://rentals-media.s3.us-east-1.amazonaws.com/"+obj.Key, obj.URL)
	assert.Equal(t, 3, obj.Size)
}

func TestUpload_GivesUpAfterMaxRetries(t *testing.T) {
	failure := errors.New("service unavailable")
	api := &fakeS3{putErrs: []error{failure, failure, failure, failure}}
	s := newTestStorage(api)

	_, err := s.Upload(context.Background(), "p", Attachment{Filename: "a.png", Data: []byte("x")})

	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 3, api.putCalled)
}

func TestUpload_CancelledContextIsNotRetried(t *testing.T) {
	api := &fakeS3{putErrs: []error{context.Canceled, nil}}
	s := newTestStorage(api)

	_, err := s.Upload(context.Background(), "p", Attachment{Filename: "a.png", Data: []byte("x")})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, api.putCalled)
}

func TestDownloadReplaceDelete(t *testing.T) {
	api := &fakeS3{}
	s := newTestStorage(api)
	ctx := context.Background()

	obj, err := s.Upload(ctx, "p", Attachment{Filename: "a.png", ContentType: "image/png", Data: []byte("original")})
	require.NoError(t, err)

	require.NoError(t, s.Replace(ctx, obj.Key, []byte("smaller"), "image/png"))
	data, contentType, err := s.Download(ctx, obj.Key)
	require.NoError(t, err)
	assert.Equal(t, "smaller", string(data))
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, s.Delete(ctx, obj.Key))
	assert.Equal(t, []string{obj.Key}, api.deletes)
}

func TestKeyFromURL(t *testing.T) {
	s := newTestStorage(&fakeS3{})

	key, ok := s.KeyFromURL("https://rentals-media.s3.us-east-1.amazonaws.com/properties/1/x.jpg")
	assert.True(t, ok)
	assert.Equal(t, "properties/1/x.jpg", key)

	_, ok = s.KeyFromURL("https://elsewhere.example.com/x.jpg")
	assert.False(t, ok)
	_, ok = s.KeyFromURL(s.ObjectURL(""))
	assert.False(t, ok)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "my_photo_1_.png", sanitizeFilename("my photo(1).png"))
	assert.Equal(t, "x.pdf", sanitizeFilename(`C:\docs\x.pdf`))
	assert.Equal(t, "", sanitizeFilename(""))
}

func TestDecodeAttachment(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nrest"))

	t.Run("data uri", func(t *testing.T) {
		a, err := DecodeAttachment("data:image/webp;base64,"+payload, "photo", 0)
		require.NoError(t, err)
		assert.Equal(t, "image/webp", a.ContentType)
		assert.True(t, a.IsImage())
	})

	t.Run("raw base64 with extension", func(t *testing.T) {
		a, err := DecodeAttachment(payload, "photo.jpg", 0)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", a.ContentType)
	})

	t.Run("raw base64 sniffed", func(t *testing.T) {
		a, err := DecodeAttachment(payload, "photo", 0)
		require.NoError(t, err)
		assert.Equal(t, "image/png", a.ContentType)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := DecodeAttachment("  ", "x", 0)
		assert.ErrorIs(t, err, ErrEmptyAttachment)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := DecodeAttachment("!!not-base64!!", "x", 0)
		assert.ErrorIs(t, err, ErrAttachmentEncoding)
	})

	t.Run("data uri without base64 marker", func(t *testing.T) {
		_, err := DecodeAttachment("data:text/plain,hello", "x", 0)
		assert.ErrorIs(t, err, ErrAttachmentEncoding)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := DecodeAttachment(payload, "x.png", 4)
		assert.ErrorIs(t, err, ErrAttachmentTooLarge)
	})
}
