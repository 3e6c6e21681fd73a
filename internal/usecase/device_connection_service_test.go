package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/ports/mocks"
	"github.com/Gunvolt24/command_router/pkg/validate"
)

func newConnService(t *testing.T, maxTTL time.Duration) (*DeviceConnectionService, *mocks.MockTenantClient, *mocks.MockDeviceConnectionService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	tenants := mocks.NewMockTenantClient(ctrl)
	store := mocks.NewMockDeviceConnectionService(ctrl)
	return NewDeviceConnectionService(tenants, store, noopLogger{}, maxTTL), tenants, store
}

func TestDeviceConnectionService_SetAdapterInstance(t *testing.T) {
	svc, tenants, store := newConnService(t, 0)

	tenants.EXPECT().GetTenant(gomock.Any(), "t1").Return(sampleTenant("t1", true), nil)
	store.EXPECT().SetAdapterInstance(gomock.Any(), "t1", "dev-1", "adapter-1", time.Minute).Return(nil)

	if err := svc.SetAdapterInstance(context.Background(), "t1", "dev-1", "adapter-1", time.Minute); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestDeviceConnectionService_SetAdapterInstance_ClampsTTL(t *testing.T) {
	svc, tenants, store := newConnService(t, time.Hour)

	tenants.EXPECT().GetTenant(gomock.Any(), "t1").Return(sampleTenant("t1", true), nil).Times(2)
	store.EXPECT().SetAdapterInstance(gomock.Any(), "t1", "dev-1", "adapter-1", time.Hour).Return(nil).Times(2)

	// бессрочная регистрация ограничивается maxTTL
	if err := svc.SetAdapterInstance(context.Background(), "t1", "dev-1", "adapter-1", 0); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := svc.SetAdapterInstance(context.Background(), "t1", "dev-1", "adapter-1", 48*time.Hour); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestDeviceConnectionService_UnknownTenant(t *testing.T) {
	svc, tenants, _ := newConnService(t, 0)

	tenants.EXPECT().GetTenant(gomock.Any(), "ghost").Return(nil, domain.ErrTenantNotFound)
	// store не вызывается

	err := svc.SetAdapterInstance(context.Background(), "ghost", "dev-1", "adapter-1", time.Minute)
	if !errors.Is(err, domain.ErrTenantNotFound) {
		t.Fatalf("want ErrTenantNotFound, got %v", err)
	}
}

func TestDeviceConnectionService_InvalidIdentifiers(t *testing.T) {
	svc, tenants, _ := newConnService(t, 0)
	tenants.EXPECT().GetTenant(gomock.Any(), "t1").Return(sampleTenant("t1", true), nil).AnyTimes()

	ctx := context.Background()
	if err := svc.SetAdapterInstance(ctx, "t1", "", "adapter-1", 0); !errors.Is(err, validate.ErrInvalidIdentifier) {
		t.Fatalf("empty device: want ErrInvalidIdentifier, got %v", err)
	}
	if err := svc.SetAdapterInstance(ctx, "t1", "dev-1", "bad instance", 0); !errors.Is(err, validate.ErrInvalidIdentifier) {
		t.Fatalf("bad instance: want ErrInvalidIdentifier, got %v", err)
	}
	if err := svc.SetLastKnownGateway(ctx, "t1", "dev-1", ""); !errors.Is(err, validate.ErrInvalidIdentifier) {
		t.Fatalf("empty gateway: want ErrInvalidIdentifier, got %v", err)
	}
}

func TestDeviceConnectionService_RemoveAdapterInstance(t *testing.T) {
	svc, tenants, store := newConnService(t, 0)

	tenants.EXPECT().GetTenant(gomock.Any(), "t1").Return(sampleTenant("t1", true), nil).Times(2)
	gomock.InOrder(
		store.EXPECT().RemoveAdapterInstance(gomock.Any(), "t1", "dev-1", "adapter-1").Return(true, nil),
		store.EXPECT().RemoveAdapterInstance(gomock.Any(), "t1", "dev-1", "adapter-1").Return(false, nil),
	)

	removed, err := svc.RemoveAdapterInstance(context.Background(), "t1", "dev-1", "adapter-1")
	if err != nil || !removed {
		t.Fatalf("want removed, got %v %v", removed, err)
	}
	removed, err = svc.RemoveAdapterInstance(context.Background(), "t1", "dev-1", "adapter-1")
	if err != nil || removed {
		t.Fatalf("want not removed, got %v %v", removed, err)
	}
}

func TestDeviceConnectionService_StoreErrorWrapped(t *testing.T) {
	svc, tenants, store := newConnService(t, 0)

	boom := errors.New("redis down")
	tenants.EXPECT().GetTenant(gomock.Any(), "t1").Return(sampleTenant("t1", true), nil)
	store.EXPECT().SetLastKnownGateway(gomock.Any(), "t1", "dev-1", "gw-1").Return(boom)

	if err := svc.SetLastKnownGateway(context.Background(), "t1", "dev-1", "gw-1"); !errors.Is(err, boom) {
		t.Fatalf("want store error, got %v", err)
	}
}
