package s3

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewClientBuildsPublicBase(t *testing.T) {
	c, err := NewClient(Options{Endpoint: "http://minio:9000", PublicEndpoint: "localhost:9000", Bucket: "media"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ObjectURL(c.publicBaseURL, c.bucket, "/properties/p1/a.jpg"); got != "http://localhost:9000/media/properties/p1/a.jpg" {
		t.Fatalf("unexpected url %s", got)
	}
	if hostOf("https://s3.example.com") != "s3.example.com" {
		t.Fatalf("endpoint host not extracted")
	}
}

func TestNewClientValidates(t *testing.T) {
	if _, err := NewClient(Options{Bucket: "media"}, nil); err == nil {
		t.Fatalf("expected endpoint error")
	}
	if _, err := NewClient(Options{Endpoint: "minio:9000"}, nil); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestNoopUploader(t *testing.T) {
	_, err := NoopUploader{}.Upload(context.Background(), "k", strings.NewReader("x"), "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
