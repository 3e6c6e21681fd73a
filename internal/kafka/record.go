package kafka

import (
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/command_router/internal/domain"
)

// newCommandRecord строит CommandRecord из записи топика тенанта.
// device_id берётся из заголовка, при его отсутствии — из ключа записи.
func newCommandRecord(tenantID string, msg *kafka.Message) (*domain.CommandRecord, error) {
	headers := make([]domain.Header, 0, len(msg.Headers))
	for _, h := range msg.Headers {
		headers = append(headers, domain.Header{Key: h.Key, Value: h.Value})
	}

	rec := &domain.CommandRecord{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		TenantID:  tenantID,
		Key:       msg.Key,
		Payload:   msg.Value,
		Headers:   headers,
		Timestamp: msg.Time,
	}
	rec.DeviceID, _ = domain.HeaderValue(headers, domain.HeaderDeviceID)
	if rec.DeviceID == "" {
		rec.DeviceID = string(msg.Key)
	}
	rec.Subject, _ = domain.HeaderValue(headers, domain.HeaderSubject)
	rec.CorrelationID, _ = domain.HeaderValue(headers, domain.HeaderCorrelationID)

	if rec.DeviceID == "" {
		return rec, domain.ErrUnroutableCommand
	}
	return rec, nil
}

// newInternalCommandRecord — запись внутреннего топика: тенант приходит в заголовке.
func newInternalCommandRecord(msg *kafka.Message) (*domain.CommandRecord, error) {
	tenantID := ""
	for _, h := range msg.Headers {
		if h.Key == domain.HeaderTenantID {
			tenantID = string(h.Value)
			break
		}
	}
	rec, err := newCommandRecord(tenantID, msg)
	if err != nil {
		return rec, err
	}
	if tenantID == "" {
		return rec, domain.ErrUnroutableCommand
	}
	return rec, nil
}
