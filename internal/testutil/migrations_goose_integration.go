//go:build integration

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Gunvolt24/command_router/internal/repo/postgres"
)

// RegistryMigrationsDir — <repo>/migrations, считается от расположения этого файла,
// чтобы тесты любого пакета находили миграции независимо от рабочего каталога.
func RegistryMigrationsDir() (string, error) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("testutil: caller info unavailable")
	}
	dir := filepath.Join(filepath.Dir(thisFile), "..", "..", "migrations")
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return "", fmt.Errorf("registry migrations not found at %q", dir)
	}
	return filepath.Clean(dir), nil
}

// ApplyRegistryMigrations — схема реестра тенантов тем же путём, что и при старте
// сервиса с CMDROUTER_POSTGRES_MIGRATE=true.
func ApplyRegistryMigrations(dsn string) error {
	dir, err := RegistryMigrationsDir()
	if err != nil {
		return err
	}
	return postgres.Migrate(dsn, dir)
}
