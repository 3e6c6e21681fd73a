package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Gunvolt24/command_router/internal/ports"
	"github.com/Gunvolt24/command_router/pkg/ctxmeta"
)

// TenantConsumer — подписка на топик команд одного тенанта и её пайплайн.
type TenantConsumer struct {
	tenantID         string
	reader           reader
	pipeline         *Pipeline
	log              ports.Logger
	retry            *backoff
	maxFetchFailures int
	onFailure        func(c *TenantConsumer, err error)

	mu        sync.Mutex
	started   bool
	cancel    context.CancelFunc
	fetchDone chan struct{}

	stopOnce sync.Once
	stopErr  error

	fetchErr atomic.Pointer[error]
}

func newTenantConsumer(
	tenantID string,
	cfg *ConsumerConfig,
	r reader,
	p *Pipeline,
	log ports.Logger,
	onFailure func(c *TenantConsumer, err error),
) *TenantConsumer {
	return &TenantConsumer{
		tenantID:         tenantID,
		reader:           r,
		pipeline:         p,
		log:              log,
		retry:            newBackoff(cfg.RetryInitial, cfg.RetryMax),
		maxFetchFailures: cfg.MaxFetchFailures,
		onFailure:        onFailure,
		fetchDone:        make(chan struct{}),
	}
}

// TenantID — тенант, чьи команды читает консьюмер.
func (c *TenantConsumer) TenantID() string { return c.tenantID }

// Start запускает пайплайн и цикл чтения. Контекст нужен только для значений (логирование):
// жизнь консьюмера ограничивает Stop, а не отмена ctx.
func (c *TenantConsumer) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true

	runCtx, cancel := context.WithCancel(ctxmeta.WithTenantID(context.WithoutCancel(ctx), c.tenantID))
	c.cancel = cancel

	c.pipeline.Start()
	go c.fetchLoop(runCtx)
}

// fetchLoop:
// 1) читаем запись без авто-коммита;
// 2) отдаём в пайплайн (блокируется, если очередь партиции заполнена);
// 3) ошибки чтения ретраим с backoff; долгая серия ошибок — сигнал фабрике о потере подписки.
func (c *TenantConsumer) fetchLoop(ctx context.Context) {
	defer close(c.fetchDone)

	rc := c.reader.Config()
	c.log.Infof(ctx, "command consumer started tenant=%s topic=%s group_id=%s", c.tenantID, rc.Topic, rc.GroupID)

	retry := c.retry.initial
	failures := 0

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			if c.maxFetchFailures > 0 && failures == c.maxFetchFailures {
				lost := fmt.Errorf("subscription lost after %d fetch failures: %w", failures, err)
				c.fetchErr.Store(&lost)
				c.log.Errorf(ctx, "command consumer tenant=%s: %v", c.tenantID, lost)
				if c.onFailure != nil {
					go c.onFailure(c, lost)
				}
			}
			sleep := c.retry.withJitterEqual(retry)
			c.log.Warnf(ctx, "fetch failed tenant=%s: %v (will retry in %s)", c.tenantID, err, sleep)
			if !sleepWithBackoff(ctx, sleep) {
				return
			}
			retry = c.retry.next(retry)
			continue
		}

		if failures > 0 {
			failures = 0
			c.fetchErr.Store(nil)
		}
		retry = c.retry.initial

		if err := c.pipeline.Submit(ctx, msg); err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrPipelineStopped) {
				return
			}
			c.log.Warnf(ctx, "submit failed tenant=%s offset=%d: %v", c.tenantID, msg.Offset, err)
		}
	}
}

// Stop: остановить чтение, остановить пайплайн (финальный коммит), закрыть reader.
// Идемпотентен; повторные вызовы возвращают результат первого.
func (c *TenantConsumer) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		started := c.started
		c.started = true
		cancel := c.cancel
		c.mu.Unlock()

		if started && cancel != nil {
			cancel()
			select {
			case <-c.fetchDone:
			case <-ctx.Done():
				c.log.Warnf(ctx, "command consumer tenant=%s: fetch loop did not stop in time", c.tenantID)
			}
		}

		perr := c.pipeline.Stop(ctx)
		cerr := c.reader.Close()
		if cerr != nil {
			cerr = fmt.Errorf("close reader tenant=%s: %w", c.tenantID, cerr)
		}
		c.stopErr = errors.Join(perr, cerr)
		c.log.Infof(ctx, "command consumer stopped tenant=%s", c.tenantID)
	})
	return c.stopErr
}

// Health — ошибка подписки или пайплайна; nil, если всё в порядке.
func (c *TenantConsumer) Health() error {
	if errp := c.fetchErr.Load(); errp != nil {
		return *errp
	}
	return c.pipeline.Health()
}
