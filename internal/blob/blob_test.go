package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFilesystemPutGetRoundTrip(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	info, err := store.Put(ctx, "tickets/t1/receipt.pdf", strings.NewReader("receipt-bytes"), PutOptions{ContentType: "application/pdf"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len("receipt-bytes")) {
		t.Fatalf("size mismatch: %d", info.Size)
	}
	if info.ETag == "" {
		t.Fatal("expected etag")
	}

	got, rc, err := store.Get(ctx, "tickets/t1/receipt.pdf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "receipt-bytes" {
		t.Fatalf("content mismatch: %q", b)
	}
	if got.ContentType != "application/pdf" {
		t.Fatalf("content type mismatch: %q", got.ContentType)
	}

	if _, err := store.Put(ctx, "tickets/t1/receipt.pdf", strings.NewReader("x"), PutOptions{}); err == nil {
		t.Fatal("duplicate key must fail")
	}
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, key := range []string{"", "../escape", "/abs", "a/../../b"} {
		if _, err := store.Put(context.Background(), key, strings.NewReader("x"), PutOptions{}); err == nil {
			t.Fatalf("key %q should be rejected", key)
		}
	}
}

func TestFilesystemListAndDelete(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"vouchers/v1/a.jpg", "vouchers/v1/b.jpg", "tickets/t1/c.jpg"} {
		if _, err := store.Put(ctx, key, strings.NewReader("data"), PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "vouchers/v1/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 blobs, got %d", len(infos))
	}
	if infos[0].Key > infos[1].Key {
		t.Fatal("list must be key ordered")
	}

	ok, err := store.Delete(ctx, "vouchers/v1/a.jpg")
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	ok, err = store.Delete(ctx, "vouchers/v1/a.jpg")
	if err != nil || ok {
		t.Fatalf("double delete: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if _, err := store.Put(ctx, "k", strings.NewReader("v"), PutOptions{Metadata: map[string]string{"a": "b"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, err := store.Head(ctx, "k")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if info.Metadata["a"] != "b" {
		t.Fatalf("metadata lost: %v", info.Metadata)
	}
	if _, err := store.PresignURL(ctx, "k", SignedURLOptions{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("driver mismatch: %s", store.Driver())
	}
}

func TestOpenDefaultsToFilesystem(t *testing.T) {
	t.Setenv("RETAILCORE_BLOB_DRIVER", "")
	t.Setenv("RETAILCORE_BLOB_FS_ROOT", t.TempDir())
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != DriverFilesystem {
		t.Fatalf("expected fs driver, got %s", store.Driver())
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Setenv("RETAILCORE_BLOB_DRIVER", "tape")
	if _, err := Open(context.Background()); err == nil {
		t.Fatal("expected unknown driver error")
	}
}
