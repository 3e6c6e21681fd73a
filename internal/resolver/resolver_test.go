package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/ports/mocks"
)

func TestResolve_ReturnsTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockCommandTargetMapper(ctrl)

	want := domain.Target{AdapterInstanceID: "adapter-1", GatewayID: "gw-1"}
	m.EXPECT().GetTarget(gomock.Any(), "t1", "dev-1").Return(want, nil)

	got, err := New(m, time.Second).Resolve(context.Background(), "t1", "dev-1")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestResolve_ErrorsAreNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockCommandTargetMapper(ctrl)

	boom := errors.New("redis: connection refused")
	m.EXPECT().GetTarget(gomock.Any(), "t1", "dev-1").Return(domain.Target{}, boom).Times(1)

	_, err := New(m, time.Second).Resolve(context.Background(), "t1", "dev-1")
	require.ErrorIs(t, err, boom)
}

func TestResolve_EmptyTargetIsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockCommandTargetMapper(ctrl)
	m.EXPECT().GetTarget(gomock.Any(), "t1", "dev-1").Return(domain.Target{}, nil)

	_, err := New(m, time.Second).Resolve(context.Background(), "t1", "dev-1")
	require.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestResolve_TimeoutIsMapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockCommandTargetMapper(ctrl)
	m.EXPECT().GetTarget(gomock.Any(), "t1", "dev-1").
		DoAndReturn(func(ctx context.Context, _, _ string) (domain.Target, error) {
			<-ctx.Done()
			return domain.Target{}, ctx.Err()
		})

	_, err := New(m, 20*time.Millisecond).Resolve(context.Background(), "t1", "dev-1")
	require.ErrorIs(t, err, domain.ErrResolveTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolve_InvalidDeviceID(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockCommandTargetMapper(ctrl)
	// GetTarget не ожидается

	_, err := New(m, time.Second).Resolve(context.Background(), "t1", "")
	require.ErrorIs(t, err, domain.ErrUnroutableCommand)
}
