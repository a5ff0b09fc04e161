package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestKV(t *testing.T, namespace string) *KV {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "petcast.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	kv, err := NewKV(db, namespace)
	if err != nil {
		t.Fatalf("NewKV: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestKV_SetGetOverwriteRemove(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t, "tab-1")

	if _, ok, err := kv.Get(ctx, "accessToken"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := kv.Set(ctx, "accessToken", "t1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, "accessToken", "t2"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if err := kv.Set(ctx, "user", `{"id":"u1"}`); err != nil {
		t.Fatalf("Set user: %v", err)
	}

	v, ok, err := kv.Get(ctx, "accessToken")
	if err != nil || !ok || v != "t2" {
		t.Fatalf("expected t2, got %q ok=%v err=%v", v, ok, err)
	}

	if err := kv.Remove(ctx, "accessToken", "user", "refreshToken"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "user"); ok {
		t.Fatalf("expected user removed")
	}
}

func TestOpen_MissingDirFails(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope", "x.db")); err == nil {
		t.Fatalf("expected error for missing parent dir")
	}
}
