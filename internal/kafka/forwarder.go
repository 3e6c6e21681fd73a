package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/ports"
	"github.com/Gunvolt24/command_router/pkg/telemetry"
)

// Проверка, что InternalForwarder удовлетворяет порту форвардера.
var _ ports.InternalCommandForwarder = (*InternalForwarder)(nil)

// WriterConfig — параметры общего продьюсера внутренних топиков.
type WriterConfig struct {
	Brokers          []string
	TopicPrefix      string
	AutoCreateTopics bool
	BatchTimeout     time.Duration
	BatchSize        int   // не меньше размера пачки пайплайна, иначе WriteMessages режет её на части
	BatchBytes       int64 // предел пачки в байтах; больше message.max.bytes брокера не ставить
	WriteTimeout     time.Duration
	ErrorLogger      kafka.Logger
}

// InternalForwarder публикует команды во внутренние топики экземпляров адаптеров.
// Один kafka.Writer на процесс: он потокобезопасен и обслуживает все пайплайны.
type InternalForwarder struct {
	writer      messageWriter
	topicPrefix string
	tracer      trace.Tracer
}

// NewInternalForwarder — конструктор. Ключ записи — device id, балансировщик Hash:
// команды одного устройства попадают в одну партицию внутреннего топика.
func NewInternalForwarder(cfg *WriterConfig) *InternalForwarder {
	return newInternalForwarder(newWriter(cfg), cfg.TopicPrefix)
}

func newWriter(cfg *WriterConfig) *kafka.Writer {
	bt := cfg.BatchTimeout
	if bt <= 0 {
		bt = 5 * time.Millisecond
	}
	wt := cfg.WriteTimeout
	if wt <= 0 {
		wt = 10 * time.Second
	}
	bs := cfg.BatchSize
	if bs <= 0 {
		bs = 100
	}
	bb := cfg.BatchBytes
	if bb <= 0 {
		bb = 16 << 20
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: cfg.AutoCreateTopics,
		BatchTimeout:           bt,
		BatchSize:              bs,
		BatchBytes:             bb,
		WriteTimeout:           wt,
		ErrorLogger:            cfg.ErrorLogger,
	}
	return w
}

func newInternalForwarder(w messageWriter, topicPrefix string) *InternalForwarder {
	return &InternalForwarder{
		writer:      w,
		topicPrefix: topicPrefix,
		tracer:      otel.Tracer(telemetry.TracerName),
	}
}

// Forward публикует батч одним вызовом WriteMessages; ошибка означает, что батч надо повторить.
// Сообщения разных топиков и партиций уходят отдельными запросами, поэтому при ошибке часть
// батча может быть уже записана (kafka.WriteErrors): повтор даёт дубли, не потери.
func (f *InternalForwarder) Forward(ctx context.Context, cmds ...domain.ResolvedCommand) error {
	if len(cmds) == 0 {
		return nil
	}

	ctx, span := f.tracer.Start(ctx, "forward commands",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.Int("messaging.batch.message_count", len(cmds)),
			attribute.String("tenant_id", cmds[0].Record.TenantID),
		),
	)
	defer span.End()

	msgs := make([]kafka.Message, 0, len(cmds))
	for i := range cmds {
		msgs = append(msgs, f.internalMessage(ctx, &cmds[i]))
	}

	if err := f.writer.WriteMessages(ctx, msgs...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		var werrs kafka.WriteErrors
		if errors.As(err, &werrs) {
			span.SetAttributes(attribute.Int("messaging.batch.failed_count", werrs.Count()))
			return fmt.Errorf("write internal commands: %d of %d failed: %w", werrs.Count(), len(msgs), err)
		}
		return fmt.Errorf("write internal commands: %w", err)
	}
	return nil
}

// Close закрывает продьюсер (после остановки всех пайплайнов).
func (f *InternalForwarder) Close() error {
	return f.writer.Close()
}

// internalMessage — исходные заголовки сохраняются, tenant_id/device_id/via выставляются заново,
// trace context передаётся в traceparent.
func (f *InternalForwarder) internalMessage(ctx context.Context, cmd *domain.ResolvedCommand) kafka.Message {
	rec := cmd.Record

	headers := make([]kafka.Header, 0, len(rec.Headers)+4)
	for _, h := range rec.Headers {
		switch h.Key {
		case domain.HeaderTenantID, domain.HeaderDeviceID, domain.HeaderVia:
			continue
		}
		headers = append(headers, kafka.Header{Key: h.Key, Value: h.Value})
	}
	headers = append(headers,
		kafka.Header{Key: domain.HeaderTenantID, Value: []byte(rec.TenantID)},
		kafka.Header{Key: domain.HeaderDeviceID, Value: []byte(rec.DeviceID)},
	)
	if cmd.Target.ViaGateway() {
		headers = append(headers, kafka.Header{Key: domain.HeaderVia, Value: []byte(cmd.Target.GatewayID)})
	}
	otel.GetTextMapPropagator().Inject(ctx, telemetry.NewHeaderCarrier(&headers))

	return kafka.Message{
		Topic:   domain.InternalCommandTopic(f.topicPrefix, cmd.Target.AdapterInstanceID),
		Key:     []byte(rec.DeviceID),
		Value:   rec.Payload,
		Headers: headers,
	}
}
