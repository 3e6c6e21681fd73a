package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/command_router/internal/ports"
	"github.com/Gunvolt24/command_router/pkg/validate"
)

// DeviceConnectionService — регистрация адаптеров, обрабатывающих команды устройств.
// Проверяет идентификаторы и тенанта, хранение делегирует store.
type DeviceConnectionService struct {
	tenants ports.TenantClient
	store   ports.DeviceConnectionService
	log     ports.Logger
	maxTTL  time.Duration
}

// NewDeviceConnectionService — DI-конструктор. maxTTL > 0 ограничивает срок регистрации.
func NewDeviceConnectionService(
	tenants ports.TenantClient,
	store ports.DeviceConnectionService,
	log ports.Logger,
	maxTTL time.Duration,
) *DeviceConnectionService {
	return &DeviceConnectionService{tenants: tenants, store: store, log: log, maxTTL: maxTTL}
}

// SetAdapterInstance — устройство подключено к экземпляру адаптера; ttl <= 0 — бессрочно (или maxTTL).
func (s *DeviceConnectionService) SetAdapterInstance(ctx context.Context, tenantID, deviceID, adapterInstanceID string, ttl time.Duration) error {
	if err := s.check(ctx, tenantID, deviceID); err != nil {
		return err
	}
	if err := validate.AdapterInstanceID(adapterInstanceID); err != nil {
		return err
	}
	if s.maxTTL > 0 && (ttl <= 0 || ttl > s.maxTTL) {
		ttl = s.maxTTL
	}

	if err := s.store.SetAdapterInstance(ctx, tenantID, deviceID, adapterInstanceID, ttl); err != nil {
		s.log.Errorf(ctx, "store.SetAdapterInstance failed tenant=%s device=%s err=%v", tenantID, deviceID, err)
		return fmt.Errorf("set adapter instance: %w", err)
	}
	s.log.Infof(ctx, "adapter instance set tenant=%s device=%s instance=%s ttl=%s", tenantID, deviceID, adapterInstanceID, ttl)
	return nil
}

// RemoveAdapterInstance — снять регистрацию, только если она указывает на этот экземпляр.
// false — регистрации не было или она принадлежит другому экземпляру.
func (s *DeviceConnectionService) RemoveAdapterInstance(ctx context.Context, tenantID, deviceID, adapterInstanceID string) (bool, error) {
	if err := s.check(ctx, tenantID, deviceID); err != nil {
		return false, err
	}
	if err := validate.AdapterInstanceID(adapterInstanceID); err != nil {
		return false, err
	}

	removed, err := s.store.RemoveAdapterInstance(ctx, tenantID, deviceID, adapterInstanceID)
	if err != nil {
		s.log.Errorf(ctx, "store.RemoveAdapterInstance failed tenant=%s device=%s err=%v", tenantID, deviceID, err)
		return false, fmt.Errorf("remove adapter instance: %w", err)
	}
	return removed, nil
}

// SetLastKnownGateway — через какой шлюз устройство было видно в последний раз.
func (s *DeviceConnectionService) SetLastKnownGateway(ctx context.Context, tenantID, deviceID, gatewayID string) error {
	if err := s.check(ctx, tenantID, deviceID); err != nil {
		return err
	}
	if err := validate.DeviceID(gatewayID); err != nil {
		return err
	}

	if err := s.store.SetLastKnownGateway(ctx, tenantID, deviceID, gatewayID); err != nil {
		s.log.Errorf(ctx, "store.SetLastKnownGateway failed tenant=%s device=%s err=%v", tenantID, deviceID, err)
		return fmt.Errorf("set last known gateway: %w", err)
	}
	return nil
}

func (s *DeviceConnectionService) check(ctx context.Context, tenantID, deviceID string) error {
	if err := validate.TenantID(tenantID); err != nil {
		return err
	}
	if err := validate.DeviceID(deviceID); err != nil {
		return err
	}
	_, err := s.tenants.GetTenant(ctx, tenantID)
	return err
}
