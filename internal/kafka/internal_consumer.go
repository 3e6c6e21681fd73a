package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/ports"
	"github.com/Gunvolt24/command_router/pkg/metrics"
	"github.com/Gunvolt24/command_router/pkg/validate"
)

// Проверка, что InternalCommandConsumer удовлетворяет интерфейсу верхнего уровня (порт приложения).
var _ ports.MessageConsumer = (*InternalCommandConsumer)(nil)

// InternalCommandConsumer читает внутренний топик экземпляра адаптера
// и отдаёт команды обработчику (аудит, локальная доставка).
type InternalCommandConsumer struct {
	reader         reader
	handler        ports.InternalCommandHandler
	log            ports.Logger
	processTimeout time.Duration
	retry          *backoff
	closeOnce      sync.Once
}

// NewInternalCommandConsumer — конструктор. ReaderConfig() настроен на ручной коммит оффсетов.
func NewInternalCommandConsumer(cfg *ConsumerConfig, handler ports.InternalCommandHandler, log ports.Logger) *InternalCommandConsumer {
	return newInternalCommandConsumer(kafka.NewReader(cfg.ReaderConfig()), cfg, handler, log)
}

func newInternalCommandConsumer(r reader, cfg *ConsumerConfig, handler ports.InternalCommandHandler, log ports.Logger) *InternalCommandConsumer {
	pt := cfg.ProcessTimeout
	if pt <= 0 {
		pt = 5 * time.Second
	}
	rMax := cfg.RetryMax
	if rMax <= 0 {
		rMax = 30 * time.Second
	}

	return &InternalCommandConsumer{
		reader:         r,
		handler:        handler,
		log:            log,
		processTimeout: pt,
		retry:          newBackoff(cfg.RetryInitial, rMax),
	}
}

// Run — основной цикл:
// 1) читаем сообщение без авто-коммита;
// 2) успешная обработка → CommitMessages;
// 3) неадресуемая команда → лог и CommitMessages (пропускаем навсегда);
// 4) временная ошибка → без коммита (повторная обработка, at-least-once).
func (c *InternalCommandConsumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "internal command consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	retry := c.retry.initial

	for {
		msg, fetchErr := c.reader.FetchMessage(ctx)
		if fetchErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			sleep := c.retry.withJitterEqual(retry)
			c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", fetchErr, sleep)
			if !sleepWithBackoff(ctx, sleep) {
				return ctx.Err()
			}
			retry = c.retry.next(retry)
			continue
		}

		retry = c.retry.initial
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		if shouldCommit := c.handleMessage(ctx, rc.Topic, &msg); shouldCommit {
			c.commitSafely(ctx, &msg)
		} else {
			// пауза с джиттером, чтобы не долбить упавшую зависимость
			_ = sleepWithBackoff(ctx, c.retry.withJitterEqual(minDuration(c.retry.initial, 500*time.Millisecond)))
		}
	}
}

// handleMessage обрабатывает одно сообщение и определяет, нужно ли коммитить оффсет.
func (c *InternalCommandConsumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) bool {
	rec, err := newInternalCommandRecord(msg)
	if err == nil {
		ctxTimeout, cancel := context.WithTimeout(ctx, c.processTimeout)
		err = c.handler.HandleCommand(ctxTimeout, rec)
		cancel()
	}

	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return true
	case errors.Is(err, domain.ErrUnroutableCommand), errors.Is(err, validate.ErrInvalidIdentifier):
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "invalid command offset=%d: %v (skipped)", msg.Offset, err)
		return true
	default:
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "process failed offset=%d: %v (will retry without commit)", msg.Offset, err)
		return false
	}
}

// commitSafely пытается закоммитить оффсет и логирует ошибку.
func (c *InternalCommandConsumer) commitSafely(ctx context.Context, msg *kafka.Message) {
	if commitErr := c.reader.CommitMessages(ctx, *msg); commitErr != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, commitErr)
	}
}

// Close закрывает reader. Вызывается при остановке приложения.
func (c *InternalCommandConsumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
	})
	return retErr
}
