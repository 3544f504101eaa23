package objectstore

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/example/image-pipeline/internal/logging"
)

// S3API is the subset of the S3 client used by the store.
type S3API interface {
	GetObject(
		ctx context.Context,
		params *s3.GetObjectInput,
		optFns ...func(*s3.Options),
	) (*s3.GetObjectOutput, error)
}

// S3Store fetches objects from S3 straight into memory.
type S3Store struct {
	api    S3API
	logger *zap.Logger
}

// NewS3Store constructs a store backed by the given S3 client.
func NewS3Store(api S3API, logger *zap.Logger) *S3Store {
	return &S3Store{api: api, logger: logger.Named("s3_store")}
}

// Fetch downloads the object at bucket/key and returns its raw bytes.
// Storage failures surface immediately; there is no retry.
func (s *S3Store) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		wrapped := logging.NewStepError("objectstore.get_object", "", err)
		s.logger.Error("object download failed",
			zap.Error(wrapped),
			zap.String("bucket", bucket),
			zap.String("key", key))
		return nil, wrapped
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		wrapped := logging.NewStepError("objectstore.read_body", "", err)
		s.logger.Error("object body read failed",
			zap.Error(wrapped),
			zap.String("bucket", bucket),
			zap.String("key", key))
		return nil, wrapped
	}
	return data, nil
}
