package core

import (
	"path/filepath"
	"testing"
)

func TestOpenStorageDefaultsToSQLite(t *testing.T) {
	t.Setenv("RETAILCORE_STORAGE_DRIVER", "")
	t.Setenv("RETAILCORE_SQLITE_PATH", filepath.Join(t.TempDir(), "state.db"))

	cfg := StorageConfigFromEnv()
	if cfg.Driver != StorageSQLite {
		t.Fatalf("expected sqlite default, got %s", cfg.Driver)
	}
	store, err := OpenStorage(cfg, NewDefaultRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if store == nil {
		t.Fatal("expected store")
	}
}

func TestOpenStorageMemory(t *testing.T) {
	store, err := OpenStorage(StorageConfig{Driver: StorageMemory}, NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if store == nil {
		t.Fatal("expected store")
	}
}

func TestOpenStorageUnknownDriver(t *testing.T) {
	if _, err := OpenStorage(StorageConfig{Driver: "etcd"}, nil); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpenPersistentStoreHonorsEnv(t *testing.T) {
	t.Setenv("RETAILCORE_STORAGE_DRIVER", "memory")
	store, err := OpenPersistentStore(NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store == nil {
		t.Fatal("expected store")
	}
}
