package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/jhunter5/Backend/internal/config"
	"github.com/jhunter5/Backend/internal/retry"
)

// IS3Storage defines the object storage operations used for property, contract and application media.
type IS3Storage interface {
	Upload(ctx context.Context, prefix string, a Attachment) (StoredObject, error)
	Replace(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
	GeneratePresignedPutURL(ctx context.Context, prefix, filename, contentType string) (string, string, error)
	ObjectURL(key string) string
	KeyFromURL(url string) (string, bool)
}

// StoredObject describes an uploaded object.
type StoredObject struct {
	Key         string
	URL         string
	ContentType string
	Size        int
}

// s3API is the subset of *s3.Client used here.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// s3Storage implements IS3Storage.
type s3Storage struct {
	bucket        string
	region        string
	policy        retry.Policy
	s3Client      s3API
	presignClient *s3.PresignClient
}

// NewS3Storage creates a new S3 storage service.
func NewS3Storage(cfg *config.Config) (IS3Storage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg)

	return &s3Storage{
		bucket:        cfg.AwsS3Bucket,
		region:        cfg.AwsRegion,
		policy:        cfg.UpstreamPolicy(),
		s3Client:      s3Client,
		presignClient: s3.NewPresignClient(s3Client),
	}, nil
}

// Upload stores a under prefix with a generated key and returns its public URL.
func (s *s3Storage) Upload(ctx context.Context, prefix string, a Attachment) (StoredObject, error) {
	key := objectKey(prefix, a.Filename)
	if err := s.put(ctx, key, a.Data, a.ContentType); err != nil {
		return StoredObject{}, err
	}
	return StoredObject{
		Key:         key,
		URL:         s.ObjectURL(key),
		ContentType: a.ContentType,
		Size:        len(a.Data),
	}, nil
}

// Replace overwrites the object at key, keeping its URL stable.
func (s *s3Storage) Replace(ctx context.Context, key string, data []byte, contentType string) error {
	return s.put(ctx, key, data, contentType)
}

func (s *s3Storage) put(ctx context.Context, key string, data []byte, contentType string) error {
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	}, isRetryableS3Error)
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

func (s *s3Storage) Download(ctx context.Context, key string) ([]byte, string, error) {
	var (
		data        []byte
		contentType string
	)
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return err
		}
		defer out.Body.Close()
		data, err = io.ReadAll(out.Body)
		if err != nil {
			return err
		}
		contentType = aws.ToString(out.ContentType)
		return nil
	}, isRetryableS3Error)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download object %s: %w", key, err)
	}
	return data, contentType, nil
}

// Delete removes the object at key. Deleting a missing object is not an error.
func (s *s3Storage) Delete(ctx context.Context, key string) error {
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return err
	}, isRetryableS3Error)
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// GeneratePresignedPutURL creates a pre-signed URL for uploading an object directly from the client.
// It returns the URL and the generated S3 object key.
func (s *s3Storage) GeneratePresignedPutURL(ctx context.Context, prefix, filename, contentType string) (string, string, error) {
	key := objectKey(prefix, filename)

	presignedReq, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate presigned PUT URL for key %s: %w", key, err)
	}

	log.Printf("Generated presigned URL for key: %s", key)
	return presignedReq.URL, key, nil
}

// ObjectURL returns the virtual-hosted style URL of key.
func (s *s3Storage) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// KeyFromURL recovers the object key from a URL produced by ObjectURL.
func (s *s3Storage) KeyFromURL(url string) (string, bool) {
	base := s.ObjectURL("")
	if !strings.HasPrefix(url, base) || len(url) == len(base) {
		return "", false
	}
	return strings.TrimPrefix(url, base), true
}

func objectKey(prefix, filename string) string {
	name := sanitizeFilename(filename)
	if name == "" {
		return path.Join(prefix, uuid.NewString())
	}
	return path.Join(prefix, uuid.NewString()+"_"+name)
}

func sanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}

// isRetryableS3Error retries throttling, server errors and transport failures.
func isRetryableS3Error(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		status := respErr.HTTPStatusCode()
		return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
	}
	return true
}
