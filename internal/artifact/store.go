// Package artifact moves documents and audio artifacts in and out of S3.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/docvoice/audio-pipeline/internal/awsclient"
)

// AudioContentType is stored on every published artifact.
const AudioContentType = "audio/mpeg"

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// S3API is the subset of the S3 client used by this package.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	ContentType string
	Size        int64
}

// Store reads and writes objects in one bucket.
type Store struct {
	client  S3API
	bucket  string
	timeout time.Duration
	log     zerolog.Logger
}

// NewStore creates a Store bound to bucket.
func NewStore(client S3API, bucket string, timeout time.Duration, log zerolog.Logger) *Store {
	return &Store{
		client:  client,
		bucket:  bucket,
		timeout: timeout,
		log:     log.With().Str("bucket", bucket).Logger(),
	}
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// Stat returns metadata for key, or ErrNotFound.
func (s *Store) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	callCtx, cancel := awsclient.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.client.HeadObject(callCtx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return ObjectInfo{}, fmt.Errorf("%s/%s: %w", s.bucket, key, ErrNotFound)
		}
		return ObjectInfo{}, fmt.Errorf("failed to head %s/%s: %w", s.bucket, key, err)
	}

	return ObjectInfo{
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
	}, nil
}

// Exists reports whether key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Stat(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Fetch returns the full content of key, or ErrNotFound.
func (s *Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	callCtx, cancel := awsclient.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.client.GetObject(callCtx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s/%s: %w", s.bucket, key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}

// Put uploads data under key.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return s.put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
}

func (s *Store) put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	callCtx, cancel := awsclient.WithTimeout(ctx, s.timeout)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(callCtx, input); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Failed to upload object to S3")
		return fmt.Errorf("failed to put %s/%s: %w", s.bucket, key, err)
	}

	s.log.Debug().Str("key", key).Int64("bytes", size).Msg("Uploaded object to S3")
	return nil
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}
