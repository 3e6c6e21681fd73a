//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/command_router/internal/domain"
	pgrepo "github.com/Gunvolt24/command_router/internal/repo/postgres"
	"github.com/Gunvolt24/command_router/internal/testutil"
)

func newRepo(t *testing.T) (context.Context, *pgrepo.TenantRepository) {
	t.Helper()

	// длинный контекст — только на подъём контейнера
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancelStart)

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })

	require.NoError(t, testutil.ApplyRegistryMigrations(pg.DSN))

	// короткий контекст — на сами БД-операции
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	return ctx, pgrepo.NewTenantRepository(pg.Pool)
}

// 1) Upsert и получение тенанта
func TestTenantRepo_UpsertAndGet_TC(t *testing.T) {
	t.Parallel()
	ctx, repo := newRepo(t)

	tenant := testutil.MakeTenant()
	require.NoError(t, repo.Upsert(ctx, &tenant))

	got, err := repo.GetByID(ctx, tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, tenant.ID, got.ID)
	require.True(t, got.Enabled)
	require.WithinDuration(t, tenant.CreatedAt, got.CreatedAt, time.Second)
}

// 2) Отсутствующий тенант — (nil, nil)
func TestTenantRepo_GetMissing_TC(t *testing.T) {
	t.Parallel()
	ctx, repo := newRepo(t)

	got, err := repo.GetByID(ctx, "no-such-tenant")
	require.NoError(t, err)
	require.Nil(t, got)
}

// 3) Повторный Upsert меняет enabled и не трогает created_at
func TestTenantRepo_UpsertUpdates_TC(t *testing.T) {
	t.Parallel()
	ctx, repo := newRepo(t)

	tenant := testutil.MakeTenant()
	require.NoError(t, repo.Upsert(ctx, &tenant))

	disabled := tenant
	disabled.Enabled = false
	disabled.CreatedAt = tenant.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.Upsert(ctx, &disabled))

	got, err := repo.GetByID(ctx, tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.False(t, got.Enabled)
	require.WithinDuration(t, tenant.CreatedAt, got.CreatedAt, time.Second)
}

// 4) ListEnabled — только включённые, новые первыми, с лимитом
func TestTenantRepo_ListEnabled_TC(t *testing.T) {
	t.Parallel()
	ctx, repo := newRepo(t)

	base := time.Now().UTC().Truncate(time.Second)
	older := testutil.MakeTenant(func(tn *domain.Tenant) { tn.CreatedAt = base.Add(-2 * time.Hour) })
	newer := testutil.MakeTenant(func(tn *domain.Tenant) { tn.CreatedAt = base.Add(-time.Hour) })
	off := testutil.MakeTenant(testutil.Disabled())
	for _, tn := range []domain.Tenant{older, newer, off} {
		tn := tn
		require.NoError(t, repo.Upsert(ctx, &tn))
	}

	got, err := repo.ListEnabled(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, newer.ID, got[0].ID)
	require.Equal(t, older.ID, got[1].ID)

	got, err = repo.ListEnabled(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = repo.ListEnabled(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, got)
}
