package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/ports"
)

var (
	_ ports.CommandTargetMapper     = (*DeviceConnectionStore)(nil)
	_ ports.DeviceConnectionService = (*DeviceConnectionStore)(nil)
)

// Удаление регистрации только если она всё ещё принадлежит этому экземпляру.
var removeIfOwner = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// DeviceConnectionStore — сведения о подключениях устройств в Redis.
//
// Ключи:
//
//	<prefix>:<tenant>:adapter:<device> → adapter instance id (с TTL регистрации)
//	<prefix>:<tenant>:via:<device>     → id последнего шлюза
type DeviceConnectionStore struct {
	client goredis.UniversalClient
	prefix string
}

// NewDeviceConnectionStore — DI-конструктор.
func NewDeviceConnectionStore(client goredis.UniversalClient, prefix string) *DeviceConnectionStore {
	if prefix == "" {
		prefix = "devcon"
	}
	return &DeviceConnectionStore{client: client, prefix: prefix}
}

func (s *DeviceConnectionStore) adapterKey(tenantID, deviceID string) string {
	return s.prefix + ":" + tenantID + ":adapter:" + deviceID
}

func (s *DeviceConnectionStore) viaKey(tenantID, deviceID string) string {
	return s.prefix + ":" + tenantID + ":via:" + deviceID
}

// GetTarget — адаптер самого устройства, иначе адаптер его последнего шлюза.
func (s *DeviceConnectionStore) GetTarget(ctx context.Context, tenantID, deviceID string) (domain.Target, error) {
	instance, found, err := s.get(ctx, s.adapterKey(tenantID, deviceID))
	if err != nil {
		return domain.Target{}, err
	}
	if found {
		return domain.Target{AdapterInstanceID: instance}, nil
	}

	gatewayID, found, err := s.get(ctx, s.viaKey(tenantID, deviceID))
	if err != nil {
		return domain.Target{}, err
	}
	if !found || gatewayID == deviceID {
		return domain.Target{}, fmt.Errorf("%w: tenant=%s device=%s", domain.ErrTargetNotFound, tenantID, deviceID)
	}

	instance, found, err = s.get(ctx, s.adapterKey(tenantID, gatewayID))
	if err != nil {
		return domain.Target{}, err
	}
	if !found {
		return domain.Target{}, fmt.Errorf("%w: tenant=%s device=%s gateway=%s",
			domain.ErrTargetNotFound, tenantID, deviceID, gatewayID)
	}
	return domain.Target{AdapterInstanceID: instance, GatewayID: gatewayID}, nil
}

// SetAdapterInstance — ttl <= 0 означает регистрацию без срока.
func (s *DeviceConnectionStore) SetAdapterInstance(ctx context.Context, tenantID, deviceID, adapterInstanceID string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.adapterKey(tenantID, deviceID), adapterInstanceID, ttl).Err(); err != nil {
		return fmt.Errorf("redis set adapter instance: %w", err)
	}
	return nil
}

// RemoveAdapterInstance — true, если регистрация принадлежала adapterInstanceID и удалена.
func (s *DeviceConnectionStore) RemoveAdapterInstance(ctx context.Context, tenantID, deviceID, adapterInstanceID string) (bool, error) {
	n, err := removeIfOwner.Run(ctx, s.client, []string{s.adapterKey(tenantID, deviceID)}, adapterInstanceID).Int()
	if err != nil {
		return false, fmt.Errorf("redis remove adapter instance: %w", err)
	}
	return n > 0, nil
}

func (s *DeviceConnectionStore) SetLastKnownGateway(ctx context.Context, tenantID, deviceID, gatewayID string) error {
	if err := s.client.Set(ctx, s.viaKey(tenantID, deviceID), gatewayID, 0).Err(); err != nil {
		return fmt.Errorf("redis set last known gateway: %w", err)
	}
	return nil
}

func (s *DeviceConnectionStore) get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}
