package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"petcast-web/internal/adapters/clinicapi"
	"petcast-web/internal/adapters/storage/memory"
	"petcast-web/internal/config"
	"petcast-web/internal/notify"
	"petcast-web/internal/platform/logger"
	"petcast-web/internal/querycache"
	"petcast-web/internal/session"
)

func testConfig() config.Config {
	return config.Config{
		Backend: config.BackendConfig{
			UserURL:        "http://127.0.0.1:1",
			PetURL:         "http://127.0.0.1:1",
			AppointmentURL: "http://127.0.0.1:1",
			StatisticsURL:  "http://127.0.0.1:1",
			Timeout:        time.Second,
		},
		Cache:   config.CacheConfig{StaleTime: time.Minute, GCTime: time.Minute},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
	}
}

func TestOpenStorage_SQLitePersistsAcrossOpens(t *testing.T) {
	cfg := config.StorageConfig{
		Driver:     config.StorageSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "petcast.db"),
		Namespace:  "test",
	}
	ctx := context.Background()

	kv, err := OpenStorage(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := kv.Set(ctx, session.KeyAccessToken, "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = kv.Close()

	kv, err = OpenStorage(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()
	if v, ok, _ := kv.Get(ctx, session.KeyAccessToken); !ok || v != "abc" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	if _, err := OpenStorage(context.Background(), config.StorageConfig{Driver: "redis"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestNew_RestoresSessionFromStorage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKV()
	_ = store.Set(ctx, session.KeyAccessToken, "opaque-token")
	_ = store.Set(ctx, session.KeyUser, `{"id":"2","email":"vet@clinica.test","name":"Vet","role":"VET"}`)

	a, err := New(ctx, testConfig(), Options{Logger: logger.Nop(), Store: store, SkipOTel: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(ctx)

	s, ok := a.Session.Current()
	if !ok || s.Role != session.RoleVet || s.UserID != "2" {
		t.Fatalf("restored session = %+v, %v", s, ok)
	}
	if got := a.Session.DefaultRedirect(); got != "/vet" {
		t.Fatalf("DefaultRedirect = %q", got)
	}
}

func TestNew_ExpiryClearsCacheAndNotifications(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKV()
	_ = store.Set(ctx, session.KeyAccessToken, "opaque-token")
	_ = store.Set(ctx, session.KeyUser, `{"id":"1","email":"admin@clinica.test","name":"Admin","role":"ADMIN"}`)

	a, err := New(ctx, testConfig(), Options{Logger: logger.Nop(), Store: store, SkipOTel: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(ctx)

	querycache.Use(ctx, a.Cache, querycache.Query[int]{
		Key:     querycache.Key{"users"},
		Fetch:   func(context.Context) (int, error) { return 1, nil },
		Enabled: true,
	})
	a.Notes.Push(notify.LevelSuccess, "Usuario creado exitosamente")

	if !a.Session.Expire(ctx, "unauthorized") {
		t.Fatalf("expected a transition")
	}
	if n := len(a.Cache.Entries(querycache.Key{})); n != 0 {
		t.Fatalf("cache must be empty, %d entries left", n)
	}
	if a.Notes.Len() != 0 {
		t.Fatalf("notifications must be reset")
	}
}

func TestNew_FailsWithoutBackendURL(t *testing.T) {
	cfg := testConfig()
	cfg.Backend.StatisticsURL = ""
	_, err := New(context.Background(), cfg, Options{Logger: logger.Nop(), Store: memory.NewKV(), SkipOTel: true})
	if err == nil || !errors.Is(err, clinicapi.ErrNotConfigured) {
		t.Fatalf("expected not-configured error, got %v", err)
	}
}
