package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

// Requiere una base real: PETCAST_TEST_DSN=postgres://...
func TestKV_Postgres(t *testing.T) {
	dsn := os.Getenv("PETCAST_TEST_DSN")
	if dsn == "" {
		t.Skip("PETCAST_TEST_DSN not set")
	}

	ctx := context.Background()
	kv, err := OpenKV(ctx, dsn, "test-"+uuid.NewString())
	if err != nil {
		t.Fatalf("OpenKV: %v", err)
	}
	defer kv.Close()

	if err := kv.Set(ctx, "accessToken", "a"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, "accessToken", "b"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if v, ok, err := kv.Get(ctx, "accessToken"); err != nil || !ok || v != "b" {
		t.Fatalf("expected b, got %q ok=%v err=%v", v, ok, err)
	}
	if err := kv.Remove(ctx, "accessToken"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "accessToken"); ok {
		t.Fatalf("expected removed")
	}
}

func TestOpenKV_UnreachableServerFails(t *testing.T) {
	kv, err := OpenKV(context.Background(), "host=127.0.0.1 port=1 user=petcast connect_timeout=1 sslmode=disable", "x")
	if err == nil {
		_ = kv.Close()
		t.Fatalf("expected connection error")
	}
}
