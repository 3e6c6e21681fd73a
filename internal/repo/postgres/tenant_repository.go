package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/ports"
)

// Проверка, что TenantRepository удовлетворяет интерфейсу TenantRepository.
var _ ports.TenantRepository = (*TenantRepository)(nil)

// TenantRepository — реестр тенантов на Postgres (pgxpool).
type TenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository — конструктор TenantRepository.
func NewTenantRepository(pool *pgxpool.Pool) *TenantRepository { return &TenantRepository{pool: pool} }

// GetByID — тенант по id. Если не нашли, возвращает (nil, nil).
func (r *TenantRepository) GetByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	var t domain.Tenant
	err := r.pool.QueryRow(ctx, `
		SELECT id, enabled, created_at
		FROM tenants WHERE id = $1
	`, tenantID).Scan(&t.ID, &t.Enabled, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select tenant: %w", err)
	}
	return &t, nil
}

// Upsert — идемпотентная запись тенанта; created_at первой вставки сохраняется.
func (r *TenantRepository) Upsert(ctx context.Context, tenant *domain.Tenant) error {
	if tenant == nil || tenant.ID == "" {
		return errors.New("tenant is empty or id is required")
	}
	createdAt := tenant.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := r.pool.Exec(ctx, `
		INSERT INTO tenants (id, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			updated_at = now()
	`, tenant.ID, tenant.Enabled, createdAt); err != nil {
		return fmt.Errorf("upsert tenant: %w", err)
	}
	return nil
}

// ListEnabled — последние limit включённых тенантов (для прогрева кэша).
func (r *TenantRepository) ListEnabled(ctx context.Context, limit int) ([]*domain.Tenant, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, enabled, created_at
		FROM tenants
		WHERE enabled
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("select tenants: %w", err)
	}
	defer rows.Close()

	var result []*domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		if err := rows.Scan(&t.ID, &t.Enabled, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tenant rows: %w", err)
	}
	return result, nil
}
