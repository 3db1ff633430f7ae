package s3

import (
	"context"
	"errors"
	"testing"
)

func TestNewArchiveRequiresEndpointAndBucket(t *testing.T) {
	if _, err := NewArchive(Options{Bucket: "invoices"}, nil); !errors.Is(err, ErrEndpointRequired) {
		t.Fatalf("expected ErrEndpointRequired, got %v", err)
	}
	if _, err := NewArchive(Options{Endpoint: "http://localhost:9000"}, nil); !errors.Is(err, ErrBucketRequired) {
		t.Fatalf("expected ErrBucketRequired, got %v", err)
	}
}

func TestObjectURLUsesPublicBase(t *testing.T) {
	a, err := NewArchive(Options{
		Endpoint:      "http://minio:9000",
		Bucket:        "invoices",
		PublicBaseURL: "https://files.example.com/",
	}, nil)
	if err != nil {
		t.Fatalf("new archive: %v", err)
	}
	if got := a.objectURL("invoices/inv-1.json"); got != "https://files.example.com/invoices/invoices/inv-1.json" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestPutRejectsBlankKey(t *testing.T) {
	a, err := NewArchive(Options{Endpoint: "http://minio:9000", Bucket: "invoices"}, nil)
	if err != nil {
		t.Fatalf("new archive: %v", err)
	}
	if _, err := a.Put(context.Background(), " / ", "application/json", []byte("{}")); !errors.Is(err, ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
}

func TestHostOf(t *testing.T) {
	cases := map[string]string{
		"http://minio:9000":  "minio:9000",
		"https://s3.aws.com": "s3.aws.com",
		"minio:9000":         "minio:9000",
	}
	for in, want := range cases {
		if got := hostOf(in); got != want {
			t.Errorf("hostOf(%q) = %q, want %q", in, got, want)
		}
	}
}
