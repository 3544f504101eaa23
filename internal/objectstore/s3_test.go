package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/example/image-pipeline/internal/logging"
)

type fakeS3 struct {
	data    []byte
	err     error
	bucket  string
	key     string
	readErr error
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = *params.Bucket
	f.key = *params.Key
	if f.err != nil {
		return nil, f.err
	}
	var body io.Reader = bytes.NewReader(f.data)
	if f.readErr != nil {
		body = &failingReader{err: f.readErr}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(body)}, nil
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func TestFetchReadsObjectIntoMemory(t *testing.T) {
	api := &fakeS3{data: []byte("PNGDATA")}
	store := NewS3Store(api, zap.NewNop())

	data, err := store.Fetch(context.Background(), "b", "k")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if string(data) != "PNGDATA" {
		t.Fatalf("unexpected bytes: %q", data)
	}
	if api.bucket != "b" || api.key != "k" {
		t.Fatalf("wrong object requested: %s/%s", api.bucket, api.key)
	}
}

func TestFetchWrapsDownloadFailure(t *testing.T) {
	cause := errors.New("AccessDenied")
	store := NewS3Store(&fakeS3{err: cause}, zap.NewNop())

	_, err := store.Fetch(context.Background(), "b", "k")
	if !errors.Is(err, cause) {
		t.Fatalf("cause not preserved, got: %v", err)
	}

	var stepErr *logging.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %T", err)
	}
	if stepErr.Step != "objectstore.get_object" {
		t.Fatalf("unexpected step: %s", stepErr.Step)
	}
}

func TestFetchWrapsBodyReadFailure(t *testing.T) {
	cause := errors.New("connection reset")
	store := NewS3Store(&fakeS3{readErr: cause}, zap.NewNop())

	_, err := store.Fetch(context.Background(), "b", "k")
	if !errors.Is(err, cause) {
		t.Fatalf("cause not preserved, got: %v", err)
	}
}
