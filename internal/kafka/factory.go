package kafka

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/ports"
	"github.com/Gunvolt24/command_router/pkg/ctxmeta"
	"github.com/Gunvolt24/command_router/pkg/metrics"
	"github.com/Gunvolt24/command_router/pkg/validate"
)

var (
	// ErrFactoryNotStarted — фабрика ещё не запущена.
	ErrFactoryNotStarted = errors.New("command consumer factory not started")
	// ErrFactoryStopped — фабрика остановлена, новые консьюмеры не создаются.
	ErrFactoryStopped = errors.New("command consumer factory stopped")
	// ErrConsumerNotFound — для тенанта нет активного консьюмера.
	ErrConsumerNotFound = errors.New("command consumer not found")
)

// Проверка, что фабрика удовлетворяет порту верхнего уровня.
var _ ports.CommandConsumerFactory = (*CommandConsumerFactory)(nil)

// FactoryConfig — общие параметры консьюмеров всех тенантов.
type FactoryConfig struct {
	Consumer       ConsumerConfig // Topic и GroupID задаются фабрикой для каждого тенанта
	Pipeline       PipelineConfig
	Topics         TopicConfig
	TopicPrefix    string
	RestartTimeout time.Duration
}

type factoryState int

const (
	factoryNew factoryState = iota
	factoryStarted
	factoryStopped
)

// CommandConsumerFactory — реестр консьюмеров команд: не больше одного живого консьюмера на тенанта.
type CommandConsumerFactory struct {
	cfg       FactoryConfig
	tenants   ports.TenantClient
	resolver  ports.TargetResolver
	forwarder ports.InternalCommandForwarder
	admin     topicAdmin
	newReader func(kafka.ReaderConfig) reader
	log       ports.Logger

	mu        sync.Mutex
	state     factoryState
	groupID   string
	consumers map[string]*TenantConsumer

	// дедупликация конкурентных CreateCommandConsumer для одного тенанта
	creating singleflight.Group
}

// NewCommandConsumerFactory — DI-конструктор.
func NewCommandConsumerFactory(
	cfg *FactoryConfig,
	tenants ports.TenantClient,
	resolver ports.TargetResolver,
	forwarder ports.InternalCommandForwarder,
	log ports.Logger,
) *CommandConsumerFactory {
	admin := newTopicAdmin(cfg.Consumer.Brokers, cfg.Topics)
	newReader := func(rc kafka.ReaderConfig) reader { return kafka.NewReader(rc) }
	return newFactory(cfg, tenants, resolver, forwarder, admin, newReader, log)
}

func newFactory(
	cfg *FactoryConfig,
	tenants ports.TenantClient,
	resolver ports.TargetResolver,
	forwarder ports.InternalCommandForwarder,
	admin topicAdmin,
	newReader func(kafka.ReaderConfig) reader,
	log ports.Logger,
) *CommandConsumerFactory {
	c := *cfg
	if c.RestartTimeout <= 0 {
		c.RestartTimeout = 30 * time.Second
	}
	return &CommandConsumerFactory{
		cfg:       c,
		tenants:   tenants,
		resolver:  resolver,
		forwarder: forwarder,
		admin:     admin,
		newReader: newReader,
		log:       log,
		groupID:   c.Consumer.GroupID,
		consumers: make(map[string]*TenantConsumer),
	}
}

// SetGroupID — consumer group для консьюмеров, создаваемых после вызова.
func (f *CommandConsumerFactory) SetGroupID(groupID string) {
	f.mu.Lock()
	f.groupID = groupID
	f.mu.Unlock()
}

// GroupID — текущая consumer group.
func (f *CommandConsumerFactory) GroupID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groupID
}

// Start разрешает создание консьюмеров.
func (f *CommandConsumerFactory) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case factoryStopped:
		return ErrFactoryStopped
	case factoryStarted:
		return nil
	}
	if f.groupID == "" {
		return errors.New("command consumer factory: group id is empty")
	}
	f.state = factoryStarted
	f.log.Infof(ctx, "command consumer factory started group_id=%s", f.groupID)
	return nil
}

// Stop останавливает все консьюмеры параллельно; после него фабрика не создаёт новых.
func (f *CommandConsumerFactory) Stop(ctx context.Context) error {
	f.mu.Lock()
	if f.state == factoryStopped {
		f.mu.Unlock()
		return nil
	}
	f.state = factoryStopped
	consumers := make([]*TenantConsumer, 0, len(f.consumers))
	for _, c := range f.consumers {
		consumers = append(consumers, c)
	}
	f.consumers = make(map[string]*TenantConsumer)
	f.mu.Unlock()

	var g errgroup.Group
	for _, c := range consumers {
		c := c
		g.Go(func() error { return c.Stop(ctx) })
	}
	err := g.Wait()
	metrics.ActiveConsumers.Set(0)

	f.log.Infof(ctx, "command consumer factory stopped consumers=%d", len(consumers))
	return err
}

// CreateCommandConsumer — идемпотентно: для активного тенанта ничего не делает.
// Конкурентные вызовы для одного тенанта создают ровно один консьюмер.
func (f *CommandConsumerFactory) CreateCommandConsumer(ctx context.Context, tenantID string) error {
	if err := validate.TenantID(tenantID); err != nil {
		return err
	}

	f.mu.Lock()
	if err := f.checkStateLocked(); err != nil {
		f.mu.Unlock()
		return err
	}
	if _, ok := f.consumers[tenantID]; ok {
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()

	_, err, _ := f.creating.Do(tenantID, func() (any, error) {
		return nil, f.createConsumer(ctx, tenantID)
	})
	return err
}

func (f *CommandConsumerFactory) createConsumer(ctx context.Context, tenantID string) error {
	ctx = ctxmeta.WithTenantID(ctx, tenantID)

	// повторная проверка: предыдущий Do мог завершиться между проверкой и вызовом
	f.mu.Lock()
	if err := f.checkStateLocked(); err != nil {
		f.mu.Unlock()
		return err
	}
	if _, ok := f.consumers[tenantID]; ok {
		f.mu.Unlock()
		return nil
	}
	groupID := f.groupID
	f.mu.Unlock()

	if _, err := f.tenants.GetTenant(ctx, tenantID); err != nil {
		return fmt.Errorf("get tenant %s: %w", tenantID, err)
	}

	topic := domain.CommandTopic(f.cfg.TopicPrefix, tenantID)
	if err := f.admin.EnsureTopic(ctx, topic); err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	cc := f.cfg.Consumer
	cc.Topic = topic
	cc.GroupID = groupID

	r := f.newReader(cc.ReaderConfig())
	p := NewPipeline(tenantID, f.cfg.Pipeline, f.resolver, f.forwarder, r, f.log)
	consumer := newTenantConsumer(tenantID, &cc, r, p, f.log, f.onConsumerFailure)
	consumer.Start(ctx)

	f.mu.Lock()
	if f.state != factoryStarted {
		f.mu.Unlock()
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.cfg.RestartTimeout)
		defer cancel()
		_ = consumer.Stop(stopCtx)
		return ErrFactoryStopped
	}
	f.consumers[tenantID] = consumer
	metrics.ActiveConsumers.Set(float64(len(f.consumers)))
	f.mu.Unlock()

	f.log.Infof(ctx, "command consumer created tenant=%s topic=%s group_id=%s", tenantID, topic, groupID)
	return nil
}

// StopCommandConsumer останавливает консьюмер тенанта (финальный коммит форварднутого префикса).
func (f *CommandConsumerFactory) StopCommandConsumer(ctx context.Context, tenantID string) error {
	f.mu.Lock()
	c, ok := f.consumers[tenantID]
	if ok {
		delete(f.consumers, tenantID)
		metrics.ActiveConsumers.Set(float64(len(f.consumers)))
	}
	f.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrConsumerNotFound, tenantID)
	}
	return c.Stop(ctx)
}

// Tenants — тенанты с активными консьюмерами (по алфавиту).
func (f *CommandConsumerFactory) Tenants() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.consumers))
	for id := range f.consumers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Health — тенанты с неисправной подпиской или пайплайном.
func (f *CommandConsumerFactory) Health() map[string]string {
	f.mu.Lock()
	consumers := make([]*TenantConsumer, 0, len(f.consumers))
	for _, c := range f.consumers {
		consumers = append(consumers, c)
	}
	f.mu.Unlock()

	out := make(map[string]string)
	for _, c := range consumers {
		if err := c.Health(); err != nil {
			out[c.TenantID()] = err.Error()
		}
	}
	return out
}

// onConsumerFailure — потеря подписки: консьюмер пересоздаётся.
func (f *CommandConsumerFactory) onConsumerFailure(c *TenantConsumer, cause error) {
	tenantID := c.TenantID()

	f.mu.Lock()
	current, ok := f.consumers[tenantID]
	if !ok || current != c || f.state != factoryStarted {
		f.mu.Unlock()
		return
	}
	delete(f.consumers, tenantID)
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctxmeta.WithTenantID(context.Background(), tenantID), f.cfg.RestartTimeout)
	defer cancel()

	f.log.Warnf(ctx, "restarting command consumer tenant=%s: %v", tenantID, cause)
	if err := c.Stop(ctx); err != nil {
		f.log.Warnf(ctx, "stop failed consumer tenant=%s: %v", tenantID, err)
	}
	if err := f.CreateCommandConsumer(ctx, tenantID); err != nil {
		f.log.Errorf(ctx, "restart failed consumer tenant=%s: %v", tenantID, err)
	}
}

func (f *CommandConsumerFactory) checkStateLocked() error {
	switch f.state {
	case factoryNew:
		return ErrFactoryNotStarted
	case factoryStopped:
		return ErrFactoryStopped
	}
	return nil
}
