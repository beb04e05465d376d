package core

import (
	"fmt"
	"os"

	"retailcore/internal/infra/persistence/memory"
	"retailcore/internal/infra/persistence/postgres"
	"retailcore/internal/infra/persistence/sqlite"
	"retailcore/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// StorageConfig selects and parameterizes a storage backend.
type StorageConfig struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
}

// StorageConfigFromEnv reads backend selection from environment variables.
//
//	RETAILCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	RETAILCORE_SQLITE_PATH: path to sqlite file (default ./retailcore.db)
//	RETAILCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func StorageConfigFromEnv() StorageConfig {
	driver := os.Getenv("RETAILCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	return StorageConfig{
		Driver:      StorageDriver(driver),
		SQLitePath:  os.Getenv("RETAILCORE_SQLITE_PATH"),
		PostgresDSN: os.Getenv("RETAILCORE_POSTGRES_DSN"),
	}
}

// OpenStorage constructs the backend described by cfg.
func OpenStorage(cfg StorageConfig, engine *domain.RulesEngine) (PersistentStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		return sqlite.NewStore(cfg.SQLitePath, engine)
	case StoragePostgres:
		return postgres.NewStore(cfg.PostgresDSN, engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
func OpenPersistentStore(engine *domain.RulesEngine) (PersistentStore, error) {
	return OpenStorage(StorageConfigFromEnv(), engine)
}
