package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/semaphore"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/ports"
	"github.com/Gunvolt24/command_router/pkg/ctxmeta"
	"github.com/Gunvolt24/command_router/pkg/metrics"
)

// ErrPipelineStopped — пайплайн остановлен, новые записи не принимаются.
var ErrPipelineStopped = errors.New("command pipeline stopped")

// PipelineConfig — параметры упорядочивания и повторов.
type PipelineConfig struct {
	ResolveTimeout  time.Duration
	ResolveAttempts int // всего попыток резолва для временных ошибок (не найден — сразу пропуск)

	ForwardTimeout          time.Duration
	ForwardBatchSize        int
	ForwardFailureThreshold int // столько неудачных форвардов подряд → пайплайн нездоров

	RetryInitial time.Duration
	RetryMax     time.Duration

	CommitTimeout          time.Duration
	CommitRetryInterval    time.Duration // период повтора неудавшегося коммита, пока новых записей нет
	MaxPendingPerPartition int
}

func (c PipelineConfig) withDefaults() PipelineConfig {
	if c.ResolveTimeout <= 0 {
		c.ResolveTimeout = 3 * time.Second
	}
	if c.ResolveAttempts <= 0 {
		c.ResolveAttempts = 1
	}
	if c.ForwardTimeout <= 0 {
		c.ForwardTimeout = 10 * time.Second
	}
	if c.ForwardBatchSize <= 0 {
		c.ForwardBatchSize = 100
	}
	if c.ForwardFailureThreshold <= 0 {
		c.ForwardFailureThreshold = 5
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = 200 * time.Millisecond
	}
	if c.RetryMax <= 0 {
		c.RetryMax = 10 * time.Second
	}
	if c.CommitTimeout <= 0 {
		c.CommitTimeout = 5 * time.Second
	}
	if c.CommitRetryInterval <= 0 {
		c.CommitRetryInterval = time.Second
	}
	if c.MaxPendingPerPartition <= 0 {
		c.MaxPendingPerPartition = 1000
	}
	return c
}

type pipelineEvent interface{}

type (
	recordEvent       struct{ unit *pendingUnit }
	resolvedEvent     struct {
		unit   *pendingUnit
		target domain.Target
		err    error
	}
	resolveRetryEvent struct{ unit *pendingUnit }
	forwardedEvent    struct {
		partition int
		err       error
	}
	forwardRetryEvent struct{ partition int }
)

// Pipeline — упорядочивающий движок одного тенанта.
//
// Записи каждой партиции встают в очередь в порядке получения, резолвятся параллельно,
// а форвардятся только префиксом головы очереди, поэтому порядок публикации во внутренние
// топики совпадает с порядком в топике тенанта. Коммитится только оффсет последней
// записи форварднутого префикса. Всё состояние очередей меняет одна горутина (run).
type Pipeline struct {
	tenantID  string
	cfg       PipelineConfig
	resolver  ports.TargetResolver
	forwarder ports.InternalCommandForwarder
	committer committer
	log       ports.Logger
	retry     *backoff

	events    chan pipelineEvent
	stopReq   chan struct{}
	abortReq  chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
	abortOnce sync.Once

	lifeMu  sync.Mutex
	started bool

	slotsMu sync.Mutex
	slots   map[int]*semaphore.Weighted

	// Отмена резолвов при остановке и прерывание форварда по дедлайну остановки.
	resolveCtx    context.Context
	cancelResolve context.CancelFunc
	forwardCtx    context.Context
	cancelForward context.CancelFunc

	// Принадлежит горутине run.
	queues   map[int]*partitionQueue
	draining bool

	healthMu  sync.RWMutex
	healthErr error
}

// NewPipeline — конструктор. Цикл запускается через Start.
func NewPipeline(
	tenantID string,
	cfg PipelineConfig,
	resolver ports.TargetResolver,
	forwarder ports.InternalCommandForwarder,
	commits committer,
	log ports.Logger,
) *Pipeline {
	cfg = cfg.withDefaults()
	base := ctxmeta.WithTenantID(context.Background(), tenantID)
	resolveCtx, cancelResolve := context.WithCancel(base)
	forwardCtx, cancelForward := context.WithCancel(base)

	return &Pipeline{
		tenantID:      tenantID,
		cfg:           cfg,
		resolver:      resolver,
		forwarder:     forwarder,
		committer:     commits,
		log:           log,
		retry:         newBackoff(cfg.RetryInitial, cfg.RetryMax),
		events:        make(chan pipelineEvent, 64),
		stopReq:       make(chan struct{}),
		abortReq:      make(chan struct{}),
		done:          make(chan struct{}),
		slots:         make(map[int]*semaphore.Weighted),
		resolveCtx:    resolveCtx,
		cancelResolve: cancelResolve,
		forwardCtx:    forwardCtx,
		cancelForward: cancelForward,
		queues:        make(map[int]*partitionQueue),
	}
}

// Start запускает цикл пайплайна (повторный вызов ничего не делает).
func (p *Pipeline) Start() {
	p.lifeMu.Lock()
	defer p.lifeMu.Unlock()
	if p.started {
		return
	}
	p.started = true
	metrics.PipelineHealthy.WithLabelValues(p.tenantID).Set(1)
	go p.run()
}

// Submit передаёт запись в пайплайн. Блокируется, пока очередь партиции заполнена.
// Вызывается только из цикла чтения (одна горутина на пайплайн).
func (p *Pipeline) Submit(ctx context.Context, msg kafka.Message) error {
	select {
	case <-p.stopReq:
		return ErrPipelineStopped
	default:
	}

	slot := p.slot(msg.Partition)
	if err := slot.Acquire(ctx, 1); err != nil {
		return err
	}
	unit := &pendingUnit{msg: msg, release: sync.OnceFunc(func() { slot.Release(1) })}
	unit.record, unit.cause = newCommandRecord(p.tenantID, &msg)

	select {
	case p.events <- recordEvent{unit: unit}:
		return nil
	case <-p.stopReq:
	case <-p.done:
	case <-ctx.Done():
		unit.release()
		return ctx.Err()
	}
	unit.release()
	return ErrPipelineStopped
}

// Stop останавливает пайплайн: резолвы бросаются, идущий форвард дожидается (до дедлайна ctx),
// форварднутый префикс коммитится, остальное отбрасывается без коммита.
// После возврата пайплайн ничего не форвардит и не коммитит.
// По дедлайну форвард отменяется через ctx, а цикл завершается, не дожидаясь его возврата:
// результат такого форварда отбрасывается, оффсет его пачки не коммитится.
func (p *Pipeline) Stop(ctx context.Context) error {
	p.lifeMu.Lock()
	if !p.started {
		p.started = true
		p.stopOnce.Do(func() { close(p.stopReq) })
		close(p.done)
		p.lifeMu.Unlock()
		p.cancelResolve()
		p.cancelForward()
		return nil
	}
	p.lifeMu.Unlock()

	p.stopOnce.Do(func() { close(p.stopReq) })

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		// дедлайн: прерываем форвард и бросаем его пачку, не дожидаясь возврата Forward
		p.cancelForward()
		p.abortOnce.Do(func() { close(p.abortReq) })
		<-p.done
		return fmt.Errorf("stop pipeline tenant=%s: %w", p.tenantID, ctx.Err())
	}
}

// Done закрывается, когда цикл пайплайна завершён.
func (p *Pipeline) Done() <-chan struct{} { return p.done }

// Health — nil, если пайплайн форвардит успешно.
func (p *Pipeline) Health() error {
	p.healthMu.RLock()
	defer p.healthMu.RUnlock()
	return p.healthErr
}

func (p *Pipeline) setHealth(err error) {
	p.healthMu.Lock()
	p.healthErr = err
	p.healthMu.Unlock()

	v := 1.0
	if err != nil {
		v = 0
	}
	metrics.PipelineHealthy.WithLabelValues(p.tenantID).Set(v)
}

func (p *Pipeline) slot(partition int) *semaphore.Weighted {
	p.slotsMu.Lock()
	defer p.slotsMu.Unlock()
	s, ok := p.slots[partition]
	if !ok {
		s = semaphore.NewWeighted(int64(p.cfg.MaxPendingPerPartition))
		p.slots[partition] = s
	}
	return s
}

// post доставляет событие в цикл; после завершения цикла событие отбрасывается.
func (p *Pipeline) post(ev pipelineEvent) {
	select {
	case p.events <- ev:
	case <-p.done:
	}
}

func (p *Pipeline) run() {
	defer close(p.done)
	ctx := p.resolveCtx
	p.log.Infof(ctx, "command pipeline started tenant=%s", p.tenantID)

	// повтор коммита, когда после сбоя брокера новых событий нет
	ticker := time.NewTicker(p.cfg.CommitRetryInterval)
	defer ticker.Stop()

	stopReq := p.stopReq
	for {
		select {
		case ev := <-p.events:
			p.handle(ev)
		case <-ticker.C:
		case <-stopReq:
			stopReq = nil
			p.draining = true
			p.cancelResolve()
			p.log.Infof(ctx, "command pipeline stopping tenant=%s", p.tenantID)
		case <-p.abortReq:
			p.log.Warnf(ctx, "command pipeline stop deadline exceeded tenant=%s, in-flight forward abandoned", p.tenantID)
			p.flushCommits()
			p.finish()
			return
		}

		p.flushCommits()

		if p.draining && !p.forwardInFlight() {
			p.finish()
			return
		}
	}
}

func (p *Pipeline) handle(ev pipelineEvent) {
	switch e := ev.(type) {
	case recordEvent:
		p.onRecord(e.unit)
	case resolvedEvent:
		p.onResolved(e)
	case resolveRetryEvent:
		p.onResolveRetry(e.unit)
	case forwardedEvent:
		p.onForwarded(e)
	case forwardRetryEvent:
		p.onForwardRetry(e.partition)
	}
}

func (p *Pipeline) queue(partition int) *partitionQueue {
	q, ok := p.queues[partition]
	if !ok {
		q = newPartitionQueue(partition)
		p.queues[partition] = q
	}
	return q
}

func (p *Pipeline) onRecord(u *pendingUnit) {
	if p.draining {
		u.state = stateAbandoned
		u.release()
		metrics.CommandsAbandoned.WithLabelValues(p.tenantID).Inc()
		return
	}

	q := p.queue(u.msg.Partition)
	// После ребаланса kafka-go может повторно отдать уже полученные записи.
	if u.msg.Offset <= q.highWater {
		u.release()
		return
	}

	metrics.CommandsReceived.WithLabelValues(p.tenantID).Inc()
	metrics.PendingCommands.WithLabelValues(p.tenantID).Inc()
	q.push(u)

	if u.cause != nil {
		u.state = stateFailed
		p.reportResolutionFailure(u)
		p.drain(q)
		return
	}
	p.startResolve(u)
}

func (p *Pipeline) startResolve(u *pendingUnit) {
	u.state = stateResolving
	u.attempts++

	go func() {
		ctx, cancel := context.WithTimeout(p.resolveCtx, p.cfg.ResolveTimeout)
		target, err := p.resolver.Resolve(ctx, p.tenantID, u.record.DeviceID)
		cancel()
		p.post(resolvedEvent{unit: u, target: target, err: err})
	}()
}

func (p *Pipeline) onResolved(e resolvedEvent) {
	u := e.unit
	if p.draining || u.state != stateResolving {
		return
	}

	switch {
	case e.err == nil:
		u.state = stateResolved
		u.target = e.target
	case isRetryableResolveError(e.err) && u.attempts < p.cfg.ResolveAttempts:
		u.state = stateReceived
		delay := p.retry.withJitterEqual(p.retry.forAttempt(u.attempts))
		p.log.Warnf(p.resolveCtx, "resolve failed tenant=%s device=%s offset=%d attempt=%d: %v (retry in %s)",
			p.tenantID, u.record.DeviceID, u.msg.Offset, u.attempts, e.err, delay)
		time.AfterFunc(delay, func() { p.post(resolveRetryEvent{unit: u}) })
		return
	default:
		u.state = stateFailed
		u.cause = e.err
		p.reportResolutionFailure(u)
	}

	p.drain(p.queue(u.msg.Partition))
}

func (p *Pipeline) onResolveRetry(u *pendingUnit) {
	if p.draining || u.state != stateReceived {
		return
	}
	p.startResolve(u)
}

// drain отправляет готовый префикс головы очереди. Одновременно — не больше одного форварда на партицию.
func (p *Pipeline) drain(q *partitionQueue) {
	for {
		if p.draining || q.inFlight != nil || q.retryPending {
			return
		}
		prefix := q.readyPrefix(p.cfg.ForwardBatchSize)
		if len(prefix) == 0 {
			return
		}

		cmds := make([]domain.ResolvedCommand, 0, len(prefix))
		for _, u := range prefix {
			if u.state == stateResolved {
				cmds = append(cmds, domain.ResolvedCommand{Record: u.record, Target: u.target})
			}
		}
		if len(cmds) == 0 {
			// только пропущенные записи: форвардить нечего, продвигаем оффсет
			p.complete(q, len(prefix))
			continue
		}

		p.startForward(q, prefix, cmds)
		return
	}
}

func (p *Pipeline) startForward(q *partitionQueue, prefix []*pendingUnit, cmds []domain.ResolvedCommand) {
	for _, u := range prefix {
		if u.state == stateResolved {
			u.state = stateForwarding
		}
	}
	q.inFlight = prefix
	partition := q.partition

	go func() {
		ctx, cancel := context.WithTimeout(p.forwardCtx, p.cfg.ForwardTimeout)
		err := p.forwarder.Forward(ctx, cmds...)
		cancel()
		p.post(forwardedEvent{partition: partition, err: err})
	}()
}

func (p *Pipeline) onForwarded(e forwardedEvent) {
	q := p.queue(e.partition)
	batch := q.inFlight
	if batch == nil {
		return
	}
	q.inFlight = nil

	if e.err != nil {
		metrics.ForwardFailures.WithLabelValues(p.tenantID).Inc()
		q.forwardFailures++
		for _, u := range batch {
			if u.state == stateForwarding {
				u.state = stateResolved
			}
		}
		if p.draining {
			p.log.Warnf(p.resolveCtx, "forward failed during stop tenant=%s partition=%d: %v (batch abandoned)",
				p.tenantID, e.partition, e.err)
			return
		}

		delay := p.retry.withJitterEqual(p.retry.forAttempt(q.forwardFailures))
		if q.forwardFailures >= p.cfg.ForwardFailureThreshold {
			p.setHealth(fmt.Errorf("forward failed %d times in a row: %w", q.forwardFailures, e.err))
			p.log.Errorf(p.resolveCtx, "forward failed tenant=%s partition=%d failures=%d: %v (retry in %s)",
				p.tenantID, e.partition, q.forwardFailures, e.err, delay)
		} else {
			p.log.Warnf(p.resolveCtx, "forward failed tenant=%s partition=%d failures=%d: %v (retry in %s)",
				p.tenantID, e.partition, q.forwardFailures, e.err, delay)
		}

		q.retryPending = true
		partition := e.partition
		time.AfterFunc(delay, func() { p.post(forwardRetryEvent{partition: partition}) })
		return
	}

	forwarded := 0
	for _, u := range batch {
		if u.state == stateForwarding {
			forwarded++
		}
	}
	metrics.CommandsForwarded.WithLabelValues(p.tenantID).Add(float64(forwarded))
	if q.forwardFailures > 0 {
		q.forwardFailures = 0
		p.setHealth(nil)
	}

	p.complete(q, len(batch))
	p.drain(q)
}

func (p *Pipeline) onForwardRetry(partition int) {
	q := p.queue(partition)
	q.retryPending = false
	p.drain(q)
}

// complete снимает n юнитов с головы и запоминает оффсет последнего для коммита.
func (p *Pipeline) complete(q *partitionQueue, n int) {
	popped := q.popN(n)
	if len(popped) == 0 {
		return
	}
	for _, u := range popped {
		u.state = stateCommitted
		u.release()
	}
	metrics.PendingCommands.WithLabelValues(p.tenantID).Sub(float64(len(popped)))

	last := popped[len(popped)-1].msg
	q.toCommit = &last
}

// flushCommits коммитит продвинутые оффсеты всех партиций одним вызовом.
// Неудачный коммит повторяется на следующем событии или тике (оффсеты кумулятивны).
func (p *Pipeline) flushCommits() {
	var (
		msgs   []kafka.Message
		queues []*partitionQueue
	)
	for _, q := range p.queues {
		if q.toCommit != nil {
			msgs = append(msgs, *q.toCommit)
			queues = append(queues, q)
		}
	}
	if len(msgs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctxmeta.WithTenantID(context.Background(), p.tenantID), p.cfg.CommitTimeout)
	defer cancel()

	if err := p.committer.CommitMessages(ctx, msgs...); err != nil {
		p.log.Warnf(ctx, "commit failed tenant=%s partitions=%d: %v", p.tenantID, len(msgs), err)
		return
	}
	for _, q := range queues {
		q.committed = q.toCommit.Offset
		metrics.CommittedOffset.WithLabelValues(p.tenantID, strconv.Itoa(q.partition)).Set(float64(q.committed + 1))
		q.toCommit = nil
	}
}

func (p *Pipeline) forwardInFlight() bool {
	for _, q := range p.queues {
		if q.inFlight != nil {
			return true
		}
	}
	return false
}

// finish — последний шаг остановки: всё, что не форварднуто, отбрасывается без коммита.
func (p *Pipeline) finish() {
	abandoned := 0
	for _, q := range p.queues {
		for _, u := range q.drainAll() {
			u.state = stateAbandoned
			u.release()
			abandoned++
		}
		q.inFlight = nil
		q.retryPending = false
	}
	if abandoned > 0 {
		metrics.CommandsAbandoned.WithLabelValues(p.tenantID).Add(float64(abandoned))
		metrics.PendingCommands.WithLabelValues(p.tenantID).Sub(float64(abandoned))
	}
	p.cancelResolve()
	p.cancelForward()
	p.log.Infof(p.resolveCtx, "command pipeline stopped tenant=%s abandoned=%d", p.tenantID, abandoned)
}

func (p *Pipeline) reportResolutionFailure(u *pendingUnit) {
	reason := resolveFailureReason(u.cause)
	metrics.ResolutionFailures.WithLabelValues(p.tenantID, reason).Inc()
	device := ""
	if u.record != nil {
		device = u.record.DeviceID
	}
	p.log.Warnf(p.resolveCtx, "command skipped tenant=%s device=%s partition=%d offset=%d reason=%s: %v",
		p.tenantID, device, u.msg.Partition, u.msg.Offset, reason, u.cause)
}

func isRetryableResolveError(err error) bool {
	switch {
	case errors.Is(err, domain.ErrTargetNotFound),
		errors.Is(err, domain.ErrUnroutableCommand),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

func resolveFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTargetNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrResolveTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrUnroutableCommand):
		return "unroutable"
	}
	return "error"
}
