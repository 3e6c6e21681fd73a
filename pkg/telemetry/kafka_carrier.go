package telemetry

import (
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/propagation"
)

// TracerName — имя трейсера сервиса.
const TracerName = "github.com/Gunvolt24/command_router"

var _ propagation.TextMapCarrier = (*HeaderCarrier)(nil)

// HeaderCarrier — адаптер заголовков kafka-go к propagation.TextMapCarrier.
// Используется для переноса traceparent через внутренний топик.
type HeaderCarrier struct {
	Headers *[]kafka.Header
}

// NewHeaderCarrier — обёртка над заголовками сообщения.
func NewHeaderCarrier(headers *[]kafka.Header) HeaderCarrier {
	return HeaderCarrier{Headers: headers}
}

// Get возвращает значение первого заголовка с ключом key.
func (c HeaderCarrier) Get(key string) string {
	for _, h := range *c.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// Set заменяет значение заголовка (или добавляет новый).
func (c HeaderCarrier) Set(key, value string) {
	for i, h := range *c.Headers {
		if h.Key == key {
			(*c.Headers)[i].Value = []byte(value)
			return
		}
	}
	*c.Headers = append(*c.Headers, kafka.Header{Key: key, Value: []byte(value)})
}

// Keys — ключи всех заголовков.
func (c HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.Headers))
	for _, h := range *c.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}
