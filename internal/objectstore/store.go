package objectstore

import "context"

// Store exposes the single object-storage operation the pipeline needs.
type Store interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}
