package pipeline

import (
	"context"
	"encoding/base64"

	"go.uber.org/zap"

	"github.com/example/image-pipeline/internal/objectstore"
)

// FetchInput names the object a pipeline run starts from.
type FetchInput struct {
	S3Bucket string `json:"s3_bucket"`
	S3Key    string `json:"s3_key"`
}

// Fetcher is the first pipeline step: it downloads the target object and
// base64-encodes it into a fresh payload.
type Fetcher struct {
	store  objectstore.Store
	logger *zap.Logger
}

// NewFetcher constructs the fetch step around an object store.
func NewFetcher(store objectstore.Store, logger *zap.Logger) *Fetcher {
	return &Fetcher{store: store, logger: logger.Named("fetch_step")}
}

// Run downloads bucket/key into memory and returns the serialized payload
// with an empty inference list. Storage errors propagate unhandled.
func (f *Fetcher) Run(ctx context.Context, in FetchInput) (*Payload, error) {
	data, err := f.store.Fetch(ctx, in.S3Bucket, in.S3Key)
	if err != nil {
		return nil, err
	}

	f.logger.Info("object serialized",
		zap.String("bucket", in.S3Bucket),
		zap.String("key", in.S3Key),
		zap.Int("bytes", len(data)))

	return &Payload{
		ImageData: base64.StdEncoding.EncodeToString(data),
		S3Bucket:  in.S3Bucket,
		S3Key:     in.S3Key,
	}, nil
}
