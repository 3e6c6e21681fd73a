package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/pkg/validate"
)

// fakeBroker — журнал записей по топикам и закоммиченные оффсеты групп (одна партиция).
type fakeBroker struct {
	mu      sync.Mutex
	logs    map[string][]kafka.Message
	commits map[string]int64 // group/topic → следующий оффсет
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{logs: make(map[string][]kafka.Message), commits: make(map[string]int64)}
}

func (b *fakeBroker) publish(topic, device string, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	off := int64(len(b.logs[topic]))
	b.logs[topic] = append(b.logs[topic], kafka.Message{
		Topic:   topic,
		Offset:  off,
		Key:     []byte(device),
		Value:   []byte(value),
		Headers: []kafka.Header{{Key: domain.HeaderDeviceID, Value: []byte(device)}},
	})
}

func (b *fakeBroker) committed(group, topic string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.commits[group+"/"+topic]
}

func (b *fakeBroker) newReader(rc kafka.ReaderConfig) *fakeReader {
	return &fakeReader{broker: b, rc: rc, pos: b.committed(rc.GroupID, rc.Topic)}
}

type fakeReader struct {
	broker *fakeBroker
	rc     kafka.ReaderConfig
	pos    int64
	closed atomic.Bool
	fail   bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if r.fail {
		if err := ctx.Err(); err != nil {
			return kafka.Message{}, err
		}
		return kafka.Message{}, errors.New("group coordinator not available")
	}
	for {
		r.broker.mu.Lock()
		log := r.broker.logs[r.rc.Topic]
		if r.pos < int64(len(log)) {
			msg := log[r.pos]
			r.pos++
			r.broker.mu.Unlock()
			return msg, nil
		}
		r.broker.mu.Unlock()

		select {
		case <-ctx.Done():
			return kafka.Message{}, ctx.Err()
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.broker.mu.Lock()
	defer r.broker.mu.Unlock()
	key := r.rc.GroupID + "/" + r.rc.Topic
	for _, m := range msgs {
		if m.Offset+1 > r.broker.commits[key] {
			r.broker.commits[key] = m.Offset + 1
		}
	}
	return nil
}

func (r *fakeReader) Config() kafka.ReaderConfig { return r.rc }

func (r *fakeReader) Close() error {
	r.closed.Store(true)
	return nil
}

type fakeTenants struct{ known map[string]bool }

func (f fakeTenants) GetTenant(_ context.Context, tenantID string) (*domain.Tenant, error) {
	if !f.known[tenantID] {
		return nil, domain.ErrTenantNotFound
	}
	return &domain.Tenant{ID: tenantID, Enabled: true}, nil
}

type fakeAdmin struct {
	mu     sync.Mutex
	topics []string
	err    error
}

func (a *fakeAdmin) EnsureTopic(_ context.Context, topic string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.topics = append(a.topics, topic)
	return nil
}

// scriptedResolver — резолвер с подменяемой функцией.
type scriptedResolver struct {
	calls atomic.Int32
	mu    sync.Mutex
	fn    func(ctx context.Context) (domain.Target, error)
}

func (r *scriptedResolver) set(fn func(ctx context.Context) (domain.Target, error)) {
	r.mu.Lock()
	r.fn = fn
	r.mu.Unlock()
}

func (r *scriptedResolver) Resolve(ctx context.Context, _ string, _ string) (domain.Target, error) {
	r.calls.Add(1)
	r.mu.Lock()
	fn := r.fn
	r.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return domain.Target{AdapterInstanceID: "adapter-1"}, nil
}

type factoryEnv struct {
	broker  *fakeBroker
	admin   *fakeAdmin
	readers atomic.Int32
	last    atomic.Pointer[fakeReader]
	failing atomic.Int32 // столько первых reader'ов будут возвращать ошибки
}

func newFactoryEnv() *factoryEnv {
	return &factoryEnv{broker: newFakeBroker(), admin: &fakeAdmin{}}
}

func (e *factoryEnv) factory(t *testing.T, resolver *scriptedResolver, fwd *fakeForwarder) *CommandConsumerFactory {
	t.Helper()
	cfg := &FactoryConfig{
		Consumer: ConsumerConfig{
			Brokers:          []string{"fake:9092"},
			GroupID:          "cmdRouter",
			StartOffset:      "first",
			RetryInitial:     2 * time.Millisecond,
			RetryMax:         5 * time.Millisecond,
			MaxFetchFailures: 3,
		},
		Pipeline:       testPipelineConfig(),
		TopicPrefix:    "hono",
		RestartTimeout: time.Second,
	}
	tenants := fakeTenants{known: map[string]bool{"t1": true, "t2": true}}
	newReader := func(rc kafka.ReaderConfig) reader {
		r := e.broker.newReader(rc)
		if e.failing.Load() > 0 {
			e.failing.Add(-1)
			r.fail = true
		}
		e.readers.Add(1)
		e.last.Store(r)
		return r
	}
	f := newFactory(cfg, tenants, resolver, fwd, e.admin, newReader, nopLogger{})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = f.Stop(ctx)
	})
	return f
}

func (f *fakeForwarder) payloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, b := range f.batches {
		for _, c := range b {
			out = append(out, string(c.Record.Payload))
		}
	}
	return out
}

func TestFactory_CreateBeforeStart(t *testing.T) {
	env := newFactoryEnv()
	f := env.factory(t, &scriptedResolver{}, &fakeForwarder{})

	err := f.CreateCommandConsumer(context.Background(), "t1")
	require.ErrorIs(t, err, ErrFactoryNotStarted)
	require.Zero(t, env.readers.Load())
}

func TestFactory_ConcurrentCreateIsIdempotent(t *testing.T) {
	env := newFactoryEnv()
	f := env.factory(t, &scriptedResolver{}, &fakeForwarder{})
	require.NoError(t, f.Start(context.Background()))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.CreateCommandConsumer(context.Background(), "t1")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, int32(1), env.readers.Load())
	require.Equal(t, []string{"t1"}, f.Tenants())
	require.Equal(t, []string{"hono.command.t1"}, env.admin.topics)

	// повторный вызов для активного тенанта тоже успешен и ничего не создаёт
	require.NoError(t, f.CreateCommandConsumer(context.Background(), "t1"))
	require.Equal(t, int32(1), env.readers.Load())
}

func TestFactory_UnknownTenant(t *testing.T) {
	env := newFactoryEnv()
	f := env.factory(t, &scriptedResolver{}, &fakeForwarder{})
	require.NoError(t, f.Start(context.Background()))

	err := f.CreateCommandConsumer(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrTenantNotFound)
	require.Empty(t, f.Tenants())
	require.Zero(t, env.readers.Load())
}

func TestFactory_InvalidTenantID(t *testing.T) {
	env := newFactoryEnv()
	f := env.factory(t, &scriptedResolver{}, &fakeForwarder{})
	require.NoError(t, f.Start(context.Background()))

	err := f.CreateCommandConsumer(context.Background(), "bad/tenant")
	require.ErrorIs(t, err, validate.ErrInvalidIdentifier)
}

func TestFactory_SubscribeFailureIsSurfaced(t *testing.T) {
	env := newFactoryEnv()
	env.admin.err = ErrTopicNotFound
	f := env.factory(t, &scriptedResolver{}, &fakeForwarder{})
	require.NoError(t, f.Start(context.Background()))

	err := f.CreateCommandConsumer(context.Background(), "t1")
	require.ErrorIs(t, err, ErrTopicNotFound)
	require.Empty(t, f.Tenants())
}

func TestFactory_StopCommandConsumer(t *testing.T) {
	env := newFactoryEnv()
	f := env.factory(t, &scriptedResolver{}, &fakeForwarder{})
	require.NoError(t, f.Start(context.Background()))
	require.NoError(t, f.CreateCommandConsumer(context.Background(), "t1"))
	r := env.last.Load()

	require.NoError(t, f.StopCommandConsumer(context.Background(), "t1"))
	require.True(t, r.closed.Load())
	require.Empty(t, f.Tenants())
	require.ErrorIs(t, f.StopCommandConsumer(context.Background(), "t1"), ErrConsumerNotFound)
}

func TestFactory_StopStopsAllAndRejectsNewConsumers(t *testing.T) {
	env := newFactoryEnv()
	fwd := &fakeForwarder{}
	f := env.factory(t, &scriptedResolver{}, fwd)
	require.NoError(t, f.Start(context.Background()))
	require.NoError(t, f.CreateCommandConsumer(context.Background(), "t1"))
	require.NoError(t, f.CreateCommandConsumer(context.Background(), "t2"))
	require.Equal(t, []string{"t1", "t2"}, f.Tenants())

	env.broker.publish("hono.command.t2", "dev-1", "hello")
	require.Eventually(t, func() bool {
		return env.broker.committed("cmdRouter", "hono.command.t2") == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, f.Stop(context.Background()))
	require.Empty(t, f.Tenants())
	require.ErrorIs(t, f.CreateCommandConsumer(context.Background(), "t1"), ErrFactoryStopped)
	require.ErrorIs(t, f.Start(context.Background()), ErrFactoryStopped)
	require.Equal(t, []string{"hello"}, fwd.payloads())
}

func TestFactory_RestartsConsumerOnSubscriptionLoss(t *testing.T) {
	env := newFactoryEnv()
	env.failing.Store(1)
	fwd := &fakeForwarder{}
	f := env.factory(t, &scriptedResolver{}, fwd)
	require.NoError(t, f.Start(context.Background()))
	require.NoError(t, f.CreateCommandConsumer(context.Background(), "t1"))

	require.Eventually(t, func() bool { return env.readers.Load() == 2 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(f.Tenants()) == 1 }, time.Second, 5*time.Millisecond)

	env.broker.publish("hono.command.t1", "dev-1", "after-restart")
	require.Eventually(t, func() bool {
		return len(fwd.payloads()) == 1
	}, time.Second, 5*time.Millisecond)
	require.Empty(t, f.Health())
}

// Передача тенанта между экземплярами: A форвардит cmd_0, резолв cmd_1 зависает, A останавливается.
// B стартует с закоммиченного оффсета и форвардит cmd_1..cmd_9 по порядку.
func TestFactory_HandoverResumesAtCommittedOffset(t *testing.T) {
	env := newFactoryEnv()
	const topic = "hono.command.t1"

	fwdA := &fakeForwarder{}
	resolverA := &scriptedResolver{}
	a := env.factory(t, resolverA, fwdA)
	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, a.CreateCommandConsumer(context.Background(), "t1"))

	env.broker.publish(topic, "dev-1", "cmd_0")
	require.Eventually(t, func() bool { return env.broker.committed("cmdRouter", topic) == 1 }, time.Second, 5*time.Millisecond)

	// следующий резолв в A зависает до остановки
	held := make(chan struct{})
	var once sync.Once
	resolverA.set(func(ctx context.Context) (domain.Target, error) {
		first := false
		once.Do(func() { first = true; close(held) })
		if first {
			<-ctx.Done()
			return domain.Target{}, ctx.Err()
		}
		return domain.Target{AdapterInstanceID: "adapter-1"}, nil
	})

	env.broker.publish(topic, "dev-1", "cmd_1")
	<-held
	for i := 2; i < 10; i++ {
		env.broker.publish(topic, "dev-1", fmt.Sprintf("cmd_%d", i))
	}
	require.Eventually(t, func() bool { return resolverA.calls.Load() == 10 }, time.Second, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, []string{"cmd_0"}, fwdA.payloads())
	require.Equal(t, int64(1), env.broker.committed("cmdRouter", topic))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, a.Stop(stopCtx))
	require.Equal(t, int64(1), env.broker.committed("cmdRouter", topic), "stop must not commit unforwarded records")

	fwdB := &fakeForwarder{}
	resolverB := &scriptedResolver{}
	b := env.factory(t, resolverB, fwdB)
	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.CreateCommandConsumer(context.Background(), "t1"))

	require.Eventually(t, func() bool { return env.broker.committed("cmdRouter", topic) == 10 }, time.Second, 5*time.Millisecond)

	want := make([]string, 0, 9)
	for i := 1; i < 10; i++ {
		want = append(want, fmt.Sprintf("cmd_%d", i))
	}
	require.Equal(t, want, fwdB.payloads())
	require.Equal(t, int32(9), resolverB.calls.Load())
	require.Equal(t, []string{"cmd_0"}, fwdA.payloads(), "stopped pipeline must not forward after stop")
}
