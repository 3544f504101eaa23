package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type stubStore struct {
	data    []byte
	err     error
	buckets []string
	keys    []string
}

func (s *stubStore) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	s.buckets = append(s.buckets, bucket)
	s.keys = append(s.keys, key)
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func TestFetchEncodesObjectBytes(t *testing.T) {
	store := &stubStore{data: []byte("PNGDATA")}
	fetcher := NewFetcher(store, zap.NewNop())

	p, err := fetcher.Run(context.Background(), FetchInput{S3Bucket: "b", S3Key: "k"})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if p.ImageData != base64.StdEncoding.EncodeToString([]byte("PNGDATA")) {
		t.Fatalf("unexpected image_data: %s", p.ImageData)
	}
	if p.S3Bucket != "b" || p.S3Key != "k" {
		t.Fatalf("bucket/key not carried through: %s/%s", p.S3Bucket, p.S3Key)
	}
	if p.Inferences != "" {
		t.Fatalf("expected empty inferences, got %q", p.Inferences)
	}
	if len(store.buckets) != 1 || store.buckets[0] != "b" || store.keys[0] != "k" {
		t.Fatalf("store called with wrong location: %v %v", store.buckets, store.keys)
	}
}

func TestFetchRoundTripsExactBytes(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff, 0x1a}
	fetcher := NewFetcher(&stubStore{data: raw}, zap.NewNop())

	p, err := fetcher.Run(context.Background(), FetchInput{S3Bucket: "images", S3Key: "cat.png"})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(p.ImageData)
	if err != nil {
		t.Fatalf("image_data is not valid base64: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Fatalf("round trip mismatch: got %v, want %v", decoded, raw)
	}
}

func TestFetchPropagatesStorageError(t *testing.T) {
	storeErr := errors.New("NoSuchKey")
	fetcher := NewFetcher(&stubStore{err: storeErr}, zap.NewNop())

	_, err := fetcher.Run(context.Background(), FetchInput{S3Bucket: "b", S3Key: "missing"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, storeErr) {
		t.Fatalf("storage error not propagated, got: %v", err)
	}
}
